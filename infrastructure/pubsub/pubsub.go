package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// NewPubSub creates a Pub/Sub client for the project.
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is required")
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}

// RunNotifier publishes run summaries as JSON messages to a topic.
type RunNotifier struct {
	PubSubClient *pubsub.Client
	topicID      string
}

func NewRunNotifier(client *pubsub.Client, topicID string) *RunNotifier {
	return &RunNotifier{PubSubClient: client, topicID: topicID}
}

// NotifyRunCompleted publishes the summary, creating the topic when it does not exist yet.
func (n *RunNotifier) NotifyRunCompleted(ctx context.Context, summary model.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	topic := n.PubSubClient.Topic(n.topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check topic %s: %w", n.topicID, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", n.topicID).Info("Topic doesn't exist - creating it")
		if topic, err = n.PubSubClient.CreateTopic(ctx, n.topicID); err != nil {
			return fmt.Errorf("failed to create topic %s: %w", n.topicID, err)
		}
	}
	defer topic.Stop()

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event": "run_completed",
			"runId": summary.RunID,
		},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish run summary: %w", err)
	}

	logger.GetLogger().WithField("server ID", serverID).WithField("runId", summary.RunID).Info("Run summary published")
	return nil
}
