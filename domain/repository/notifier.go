package repository

import (
	"context"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// IRunNotifier publishes a summary once an extraction run completes.
type IRunNotifier interface {
	NotifyRunCompleted(ctx context.Context, summary model.RunSummary) error
}
