package repository

import (
	"context"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	pkgkafka "TrendBack/pkg/kafka"
)

// KafkaReportPublisher implements ReportPublisher for Kafka. Reports are
// keyed by benchmark ticker, results by run ID, so per-key ordering holds
// with a hash balancer.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaReportPublisher creates a Kafka publisher.
func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) domrepo.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, r *models.AdvisoryReport) error {
	if r == nil {
		return nil
	}
	return p.producer.Publish(ctx, p.topic, []byte(r.Benchmark), r)
}

func (p *KafkaReportPublisher) PublishResult(ctx context.Context, res *models.SimulationResult) error {
	if res == nil {
		return nil
	}
	return p.producer.Publish(ctx, p.topic, []byte(res.RunID), map[string]interface{}{
		"run_id":  res.RunID,
		"policy":  res.Policy,
		"from":    res.From,
		"to":      res.To,
		"summary": res.Summary,
	})
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
