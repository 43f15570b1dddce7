package logger

import (
	"time"

	"go.uber.org/zap"
)

// Helpers de campos estándar para mantener claves consistentes entre capas.

// ── HTTP ──

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// ── Negocio ──

func UserID(v string) zap.Field     { return zap.String("user_id", v) }
func AdminID(v string) zap.Field    { return zap.String("admin_id", v) }
func Email(v string) zap.Field      { return zap.String("email", v) }
func AttemptID(v string) zap.Field  { return zap.String("attempt_id", v) }
func QuestionID(v string) zap.Field { return zap.String("question_id", v) }
func Category(v string) zap.Field   { return zap.String("category", v) }
func Score(v int) zap.Field         { return zap.Int("score", v) }

// ── Sistema ──

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

// ── Genéricos ──

func Count(v int) zap.Field             { return zap.Int("count", v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
