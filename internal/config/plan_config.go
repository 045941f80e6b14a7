package config

import "time"

const planCheckTimeoutVar = "PLAN_CHECK_TIMEOUT"

type PlanConfig interface {
	GetPlanCheckTimeout() time.Duration
}

type Plan struct{}

var _ PlanConfig = Plan{}

func (Plan) GetPlanCheckTimeout() time.Duration {
	return GetEnvDuration(planCheckTimeoutVar, 10*time.Second)
}
