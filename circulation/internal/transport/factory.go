package transport

import (
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
)

type Config struct {
	Kind     string
	Postmark PostmarkConfig
	Topic    string
	Breaker  circuit_breaker.Settings
}

// New builds the deliverer named by cfg.Kind. Remote deliverers are wrapped with a
// circuit breaker; producer is only used by the kafka kind.
func New(cfg Config, producer sarama.SyncProducer, log *zap.Logger) (Deliverer, error) {
	var d Deliverer
	switch cfg.Kind {
	case KindLog, "":
		return NewLog(log), nil
	case KindPostmark:
		p, err := NewPostmark(cfg.Postmark)
		if err != nil {
			return nil, err
		}
		d = p
	case KindKafka:
		if producer == nil {
			return nil, errors.Wrap(ErrInvalidConfig, "kafka transport needs a producer")
		}
		d = NewKafka(producer, cfg.Topic)
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown transport %q", cfg.Kind)
	}
	return WithBreaker(d, circuit_breaker.New(cfg.Breaker), log), nil
}
