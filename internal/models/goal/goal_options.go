package goal

type GoalOption func(*Goal)

func WithGoal(title *string) GoalOption {
	if title == nil {
		return nil
	}
	return func(g *Goal) {
		g.Goal = *title
	}
}

func WithPriority(priority *int) GoalOption {
	if priority == nil {
		return nil
	}
	return func(g *Goal) {
		g.Priority = *priority
	}
}

func WithAccomplished(accomplished *bool) GoalOption {
	if accomplished == nil {
		return nil
	}
	return func(g *Goal) {
		g.Accomplished = *accomplished
	}
}

func WithForecast(forecast *Forecast) GoalOption {
	if forecast == nil {
		return nil
	}
	return func(g *Goal) {
		g.Forecast = forecast
	}
}
