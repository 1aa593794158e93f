package reportpublisherv1

import (
	"context"
)

// ReportPublisher defines the interface for publishing execution reports.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=reportpublisherv1_mock
type ReportPublisher interface {
	// PublishReports publishes one batch of execution reports to the Kafka topic.
	PublishReports(ctx context.Context, batch *ReportBatch) error
}
