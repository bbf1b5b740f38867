package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// NewServiceBus connects to a namespace (e.g. "myns.servicebus.windows.net") with the default Azure credential chain.
func NewServiceBus(ctx context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create service bus client: %w", err)
	}
	return client, nil
}

// messageSender is the part of *azservicebus.Sender the notifier uses.
type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// RunNotifier sends run summaries as JSON messages to a queue or topic.
type RunNotifier struct {
	queue     string
	newSender func(queue string) (messageSender, error)
}

func NewRunNotifier(client *azservicebus.Client, queue string) *RunNotifier {
	return &RunNotifier{
		queue: queue,
		newSender: func(queue string) (messageSender, error) {
			return client.NewSender(queue, nil)
		},
	}
}

func (n *RunNotifier) NotifyRunCompleted(ctx context.Context, summary model.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	sender, err := n.newSender(n.queue)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	subject := "run_completed"
	message := &azservicebus.Message{
		Body:        payload,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]interface{}{
			"runId": summary.RunID,
		},
	}
	if summary.RunID != "" {
		message.MessageID = &summary.RunID
	}
	if err := sender.SendMessage(ctx, message, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return fmt.Errorf("failed to send run summary: %w", err)
	}
	return nil
}
