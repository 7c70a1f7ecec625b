package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payslip"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollRunLocked menerbitkan payslip begitu run dikunci finance.
// GenerateForRun idempoten, jadi redelivery dari Kafka aman: karyawan yang
// sudah punya payslip hanya dilewati.
func ConsumePayrollRunLocked(
	ctx context.Context,
	reader *kafkago.Reader,
	payslipService payslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run_locked")
	log.Info("payroll run locked consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run locked consumer stopped")
				return
			}
			log.Error("fetch payroll run locked message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunLockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run locked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		report, err := payslipService.GenerateForRun(ctx, event.CompanyID, event.PayrollRunID)
		if err != nil {
			log.Error("generate payslips failed",
				zap.String("payroll_run_id", event.PayrollRunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run locked message failed", zap.Error(err))
			continue
		}

		log.Info("payslips generated from run locked event",
			zap.String("payroll_run_id", event.PayrollRunID),
			zap.String("company_id", event.CompanyID),
			zap.Int("generated", report.Generated),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", len(report.Failed)),
		)
	}
}
