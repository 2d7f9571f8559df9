package user

// User — учётная запись владельца данных. Создаётся один раз через cmd/seed,
// саморегистрации нет.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}
