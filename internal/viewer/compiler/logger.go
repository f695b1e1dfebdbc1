package compiler

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler отбрасывает все записи; Enabled == false, поэтому форматирование не выполняется.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger задает логгер компилятора. По умолчанию компилятор молчит;
// nil возвращает молчаливый логгер.
//
// Уровни:
//   - Debug: счетчики по стадиям сборки
//   - Info: начало и завершение сборки
//   - Warn: пропущенные сущности (вырожденные комнаты, висячие ссылки, неизвестные стены)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func Logger() *slog.Logger {
	return loggerPtr.Load()
}
