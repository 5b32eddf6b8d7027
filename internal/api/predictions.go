// ABOUTME: Forecasting panel endpoints: reorder predictions and model training runs.
// ABOUTME: Serves deterministic canned data; no real model runs behind these routes.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// registerPredictionRoutes wires up the forecasting panel endpoints.
func registerPredictionRoutes(api huma.API) {
	runs := newTrainingRuns()

	huma.Register(api, huma.Operation{
		OperationID: "list-reorder-predictions",
		Method:      http.MethodGet,
		Path:        "/predictions/reorders",
		Summary:     "List reorder predictions",
		Tags:        []string{"Predictions"},
	}, listReorderPredictionsHandler())

	huma.Register(api, huma.Operation{
		OperationID: "list-training-runs",
		Method:      http.MethodGet,
		Path:        "/training/runs",
		Summary:     "List model training runs",
		Tags:        []string{"Predictions"},
	}, listTrainingRunsHandler(runs))

	huma.Register(api, huma.Operation{
		OperationID:   "start-training-run",
		Method:        http.MethodPost,
		Path:          "/training/runs",
		Summary:       "Start a model training run",
		Description:   "Records a new training run; completes immediately with simulated results.",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Predictions"},
	}, startTrainingRunHandler(runs))
}

// ── GET /predictions/reorders ─────────────────────────────────────────────────

// ReorderPrediction is one product's forecasted reorder suggestion.
type ReorderPrediction struct {
	ID               string `json:"id"`
	ProductName      string `json:"productName"`
	SKU              string `json:"sku"`
	CurrentStock     int    `json:"currentStock"`
	PredictedDemand  int    `json:"predictedDemand"`
	SuggestedReorder int    `json:"suggestedReorder"`
	ReorderDate      string `json:"reorderDate"` // YYYY-MM-DD
	Confidence       string `json:"confidence"`  // high, medium, low
}

// ListReorderPredictionsOutput is the response for GET /predictions/reorders.
type ListReorderPredictionsOutput struct {
	Body *ListReorderPredictionsBody
}

// ListReorderPredictionsBody wraps the prediction list.
type ListReorderPredictionsBody struct {
	Items []ReorderPrediction `json:"items"`
}

// cannedPredictions mirrors the demo forecast set shipped with the dashboard.
var cannedPredictions = []ReorderPrediction{
	{ID: "1", ProductName: "iPhone 15 Pro", SKU: "ELEC-001", CurrentStock: 45, PredictedDemand: 120, SuggestedReorder: 100, ReorderDate: "2024-01-25", Confidence: "high"},
	{ID: "2", ProductName: "AirPods Pro", SKU: "ACCS-001", CurrentStock: 5, PredictedDemand: 80, SuggestedReorder: 100, ReorderDate: "2024-01-22", Confidence: "high"},
	{ID: "3", ProductName: "Samsung TV 65\"", SKU: "ELEC-002", CurrentStock: 8, PredictedDemand: 25, SuggestedReorder: 30, ReorderDate: "2024-01-24", Confidence: "medium"},
	{ID: "4", ProductName: "MacBook Air M3", SKU: "COMP-001", CurrentStock: 23, PredictedDemand: 40, SuggestedReorder: 25, ReorderDate: "2024-01-28", Confidence: "medium"},
	{ID: "5", ProductName: "Smart Thermostat", SKU: "HOME-001", CurrentStock: 3, PredictedDemand: 15, SuggestedReorder: 20, ReorderDate: "2024-01-23", Confidence: "low"},
}

func listReorderPredictionsHandler() func(context.Context, *struct{}) (*ListReorderPredictionsOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*ListReorderPredictionsOutput, error) {
		items := make([]ReorderPrediction, len(cannedPredictions))
		copy(items, cannedPredictions)
		return &ListReorderPredictionsOutput{Body: &ListReorderPredictionsBody{Items: items}}, nil
	}
}

// ── Training runs ─────────────────────────────────────────────────────────────

// TrainingRun is one recorded model training run.
type TrainingRun struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"` // RFC3339
	Duration   string  `json:"duration"`
	Accuracy   float64 `json:"accuracy"`
	Status     string  `json:"status"`
	DataPoints int     `json:"dataPoints"`
}

// trainingRuns holds the run history in memory, newest first, seeded with
// the demo history.
type trainingRuns struct {
	mu   sync.Mutex
	runs []TrainingRun
}

func newTrainingRuns() *trainingRuns {
	return &trainingRuns{runs: []TrainingRun{
		{ID: "1", Date: "2024-01-20T14:30:00Z", Duration: "45 min", Accuracy: 94.2, Status: "completed", DataPoints: 125000},
		{ID: "2", Date: "2024-01-13T10:15:00Z", Duration: "42 min", Accuracy: 93.8, Status: "completed", DataPoints: 118000},
		{ID: "3", Date: "2024-01-06T09:00:00Z", Duration: "48 min", Accuracy: 92.5, Status: "completed", DataPoints: 112000},
		{ID: "4", Date: "2023-12-30T11:30:00Z", Duration: "38 min", Accuracy: 91.2, Status: "completed", DataPoints: 105000},
	}}
}

func (t *trainingRuns) list() []TrainingRun {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TrainingRun, len(t.runs))
	copy(out, t.runs)
	return out
}

func (t *trainingRuns) add(run TrainingRun) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs = append([]TrainingRun{run}, t.runs...)
}

// ListTrainingRunsOutput is the response for GET /training/runs.
type ListTrainingRunsOutput struct {
	Body *ListTrainingRunsBody
}

// ListTrainingRunsBody wraps the run history.
type ListTrainingRunsBody struct {
	Items []TrainingRun `json:"items"`
}

func listTrainingRunsHandler(runs *trainingRuns) func(context.Context, *struct{}) (*ListTrainingRunsOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*ListTrainingRunsOutput, error) {
		return &ListTrainingRunsOutput{Body: &ListTrainingRunsBody{Items: runs.list()}}, nil
	}
}

// StartTrainingRunOutput is the response for POST /training/runs.
type StartTrainingRunOutput struct {
	Body *TrainingRun
}

func startTrainingRunHandler(runs *trainingRuns) func(context.Context, *struct{}) (*StartTrainingRunOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*StartTrainingRunOutput, error) {
		run := TrainingRun{
			ID:         uuid.NewString(),
			Date:       time.Now().UTC().Format(time.RFC3339),
			Duration:   "44 min",
			Accuracy:   94.7,
			Status:     "completed",
			DataPoints: 127000,
		}
		runs.add(run)
		return &StartTrainingRunOutput{Body: &run}, nil
	}
}
