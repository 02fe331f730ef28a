package elementary

import (
	"strconv"

	"ring-ca/internal/core"
)

// Parameters reports the engine's configuration and buffer state.
func (e *Engine) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name:    "Rule",
			Summary: e.rule.String(),
			Params: []core.Parameter{
				intParam("rule", "Rule code", e.rule.Code()),
			},
		},
		{
			Name: "Buffer",
			Params: []core.Parameter{
				intParam("w", "Width", e.cfg.Width),
				intParam("gens", "Generations", len(e.history)),
				intParam("current_slot", "Current slot", e.current),
				intParam("total_produced", "Total produced", e.total),
			},
		},
		{
			Name: "Seed",
			Params: []core.Parameter{
				stringParam("seed", "Seed mode", string(e.cfg.Seed)),
				intParam("pos", "Seed position", e.cfg.Position()),
				int64Param("random_seed", "Random seed", e.cfg.RandomSeed),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
