// email отвечает за доставку писем с подтверждением адреса.
//
// Реальная SMTP-доставка в сервис не входит: Sender — точка расширения,
// по умолчанию используется реализация, пишущая ссылку в лог.
package email

import (
	"context"
	"log/slog"

	"github.com/vsmolina/photoshare/internal/pkg/log"
	"github.com/vsmolina/photoshare/internal/pkg/redact"
)

// Sender отправляет пользователю токен подтверждения email.
type Sender interface {
	SendConfirmation(ctx context.Context, to, token string) error
}

// LogSender пишет письмо в структурированный лог вместо отправки.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) SendConfirmation(ctx context.Context, to, token string) error {
	log.From(ctx).Info("email_confirmation_issued",
		slog.String("to", redact.Email(to)),
		slog.String("token", redact.Token()),
	)

	return nil
}

var _ Sender = (*LogSender)(nil)
