package contract

import "github.com/alexanderramin/opsassist/internal/app"

type PlanRequest = app.PlanRequest

func NewPlanRequest(text string) PlanRequest {
	return app.NewPlanRequest(text)
}

type PlanResponse = app.PlanResponse

var ErrInvalidInput = app.ErrInvalidInput

type ValidationError = app.ValidationError
