package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/event"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrReauthRequired — токен отсутствует, испорчен или отозван;
// пользователю нужно заново пройти авторизацию и положить свежий
// token.json. OAuth-флоу в этом сервисе не живёт.
var ErrReauthRequired = errors.New("требуется повторная авторизация в календаре")

// ErrUnavailable — сетевая недоступность провайдера.
var ErrUnavailable = errors.New("календарь недоступен")

const dateOnlyLayout = "2006-01-02"

// Client читает события основного календаря Google. Сервис API строится
// лениво при каждом запросе: токен может появиться или протухнуть между
// вызовами без перезапуска процесса.
type Client struct {
	credentialsPath string
	tokenPath       string
	loc             *time.Location
}

func New(credentialsPath, tokenPath string, loc *time.Location) *Client {
	return &Client{
		credentialsPath: credentialsPath,
		tokenPath:       tokenPath,
		loc:             loc,
	}
}

// FetchToday возвращает события за [полночь, следующая полночь) в опорном
// поясе. Значения только-с-датой трактуются как локальная полночь.
func (c *Client) FetchToday(ctx context.Context) ([]event.Raw, error) {
	srv, err := c.buildService(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(c.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	to := from.Add(24 * time.Hour)

	result, err := srv.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.mapAPIError(err)
	}

	raws := make([]event.Raw, 0, len(result.Items))
	for _, item := range result.Items {
		raw := event.Raw{
			GoogleID: item.Id,
			Summary:  item.Summary,
		}
		if raw.Summary == "" {
			raw.Summary = "Без названия"
		}
		if item.Start != nil {
			raw.Start = c.parseEventTime(item.Start)
		}
		if item.End != nil {
			raw.End = c.parseEventTime(item.End)
		}
		raws = append(raws, raw)
	}

	logger.Info("Calendar: События получены", zap.Int("count", len(raws)))
	return raws, nil
}

func (c *Client) buildService(ctx context.Context) (*calendar.Service, error) {
	credBytes, err := os.ReadFile(c.credentialsPath)
	if err != nil {
		logger.Warn("Calendar: Нет файла credentials", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrReauthRequired, "нет credentials.json")
	}

	config, err := google.ConfigFromJSON(credBytes, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("разбор credentials: %w", err)
	}

	tokenBytes, err := os.ReadFile(c.tokenPath)
	if err != nil {
		logger.Warn("Calendar: Нет сохранённого токена", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrReauthRequired, "нет token.json")
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(tokenBytes, token); err != nil {
		logger.Warn("Calendar: Токен не читается", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrReauthRequired, "token.json испорчен")
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("создание клиента календаря: %w", err)
	}
	return srv, nil
}

// mapAPIError разводит три режима отказа: протухшая авторизация,
// сетевая недоступность и всё остальное.
func (c *Client) mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return fmt.Errorf("%w: ответ провайдера %d", ErrReauthRequired, apiErr.Code)
		}
		return fmt.Errorf("ошибка календаря: %w", err)
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: токен отклонён", ErrReauthRequired)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return fmt.Errorf("ошибка календаря: %w", err)
}

// parseEventTime: dateTime приходит в RFC3339, date — как YYYY-MM-DD и
// означает полночь в опорном поясе.
func (c *Client) parseEventTime(edt *calendar.EventDateTime) *time.Time {
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			logger.Warn("Calendar: Не удалось разобрать dateTime", zap.String("value", edt.DateTime))
			return nil
		}
		return &t
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation(dateOnlyLayout, edt.Date, c.loc)
		if err != nil {
			logger.Warn("Calendar: Не удалось разобрать date", zap.String("value", edt.Date))
			return nil
		}
		return &t
	}
	return nil
}
