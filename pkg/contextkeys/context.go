package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB в context
const DBContextKey = contextKey("db")

// Ключи gin.Context для аутентифицированного пользователя.
// gin хранит ключи строками, поэтому здесь обычные строки.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
