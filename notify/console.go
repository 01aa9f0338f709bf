package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Console logs messages instead of sending them. Used for dry runs.
type Console struct {
	Logger *logrus.Logger
}

func (c *Console) Send(ctx context.Context, destination, message string) error {
	c.Logger.WithFields(logrus.Fields{
		"to":    destination,
		"chars": len(message),
	}).Info("dry-run message")
	return nil
}
