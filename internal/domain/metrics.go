package domain

import "time"

// Measurement is the raw timing record of one request.
type Measurement struct {
	Start time.Time
	End   time.Time
	// Tokens holds token arrival times in arrival order.
	Tokens      []time.Time
	Success     bool
	InputTokens int
}

// ExtractMetrics derives a RequestResult from a measurement. It is total:
// zero tokens, one token and failed requests all produce a valid result.
func ExtractMetrics(m Measurement) RequestResult {
	elapsed := m.End.Sub(m.Start)
	e2eMs := toMillis(elapsed)

	ttftMs := e2eMs
	if len(m.Tokens) > 0 {
		ttftMs = toMillis(m.Tokens[0].Sub(m.Start))
	}

	itlMs := 0.0
	if len(m.Tokens) > 1 {
		var sum float64
		for i := 1; i < len(m.Tokens); i++ {
			sum += toMillis(m.Tokens[i].Sub(m.Tokens[i-1]))
		}
		itlMs = sum / float64(len(m.Tokens)-1)
	}

	return RequestResult{
		TTFTMs:          ttftMs,
		E2ELatencyMs:    e2eMs,
		ITLMs:           itlMs,
		OutputTokens:    len(m.Tokens),
		InputTokens:     m.InputTokens,
		DurationSeconds: elapsed.Seconds(),
		Success:         m.Success,
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
