package logger

// Logger минимальный интерфейс структурного логгера, на который завязаны
// хендлеры, задачи и инфраструктура. Реализация по умолчанию: zap_adapter.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field struct {
	Key   string
	Value any
}

func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err короткая запись для поля "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
