// Package mail は外部メール送信の境界。実配送は外部コラボレータで、
// ここではインターフェースとログ実装のみ持つ。
package mail

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, fullname, code string) error
}

// LogMailer は実送信せずログに残す実装（開発・テスト用）。
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, fullname, code string) error {
	m.log.Info("otp mail (not sent, log only)",
		zap.String("to", to),
		zap.String("code", code),
	)
	return nil
}
