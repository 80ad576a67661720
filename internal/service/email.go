package service

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"
)

// EmailService — асинхронный email-канал уведомлений. Постановка в очередь
// best-effort и никогда не блокирует вызывающую операцию; доставкой занимается
// фоновый воркер.
type EmailService interface {
	Enqueue(to, subject, body string)
	Run(ctx context.Context)
}

type emailService struct {
	queue repository.EmailQueueRepository
	cfg   config.SMTPConfig
	log   logger.Logger
}

func NewEmailService(queue repository.EmailQueueRepository, cfg config.SMTPConfig, log logger.Logger) EmailService {
	return &emailService{
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *emailService) Enqueue(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		job := &repository.EmailJob{To: to, Subject: subject, Body: body}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.log.Warn("Failed to enqueue email", "to", to, "error", err)
		}
	}()
}

// Run обрабатывает очередь до отмены контекста
func (s *emailService) Run(ctx context.Context) {
	s.log.Info("Email worker started", "smtp_enabled", s.cfg.Enabled)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Email worker stopped")
			return
		default:
		}

		job, err := s.queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Email worker stopped")
				return
			}
			s.log.Error("Failed to dequeue email job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := s.deliver(job); err != nil {
			s.log.Error("Failed to deliver email", "to", job.To, "error", err)
		}
	}
}

func (s *emailService) deliver(job *repository.EmailJob) error {
	if !s.cfg.Enabled {
		s.log.Debug("SMTP disabled, dropping email", "to", job.To, "subject", job.Subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, job.To, job.Subject, job.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(msg))
}
