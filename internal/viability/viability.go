// Package viability assesses whether a completed backtest's terminal
// metrics describe a strategy worth pursuing further. It consumes this
// engine's own canonical metric names and never runs inside the
// deterministic per-tick path — only after End, against the Store's
// terminal values.
package viability

import "github.com/shopspring/decimal"

// Thresholds are the minimum/maximum acceptable values for each checked
// metric, trimmed to the canonical metrics this engine actually computes
// (no VaR, Calmar, or walk-forward windows).
type Thresholds struct {
	MinSharpeRatio  decimal.Decimal
	MaxDrawdown     decimal.Decimal
	MinProfitFactor decimal.Decimal
	MinWinRate      decimal.Decimal
	MinTrades       int
	MinSortinoRatio decimal.Decimal
	MinExpectancy   decimal.Decimal
}

// DefaultThresholds is a conservative preset.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSharpeRatio:  decimal.NewFromFloat(0.5),
		MaxDrawdown:     decimal.NewFromFloat(0.20),
		MinProfitFactor: decimal.NewFromFloat(1.5),
		MinWinRate:      decimal.NewFromFloat(0.40),
		MinTrades:       30,
		MinSortinoRatio: decimal.NewFromFloat(0.8),
		MinExpectancy:   decimal.Zero,
	}
}

// AggressiveThresholds is a higher-risk-tolerance preset.
func AggressiveThresholds() Thresholds {
	return Thresholds{
		MinSharpeRatio:  decimal.NewFromFloat(0.3),
		MaxDrawdown:     decimal.NewFromFloat(0.30),
		MinProfitFactor: decimal.NewFromFloat(1.2),
		MinWinRate:      decimal.NewFromFloat(0.35),
		MinTrades:       20,
		MinSortinoRatio: decimal.NewFromFloat(0.5),
		MinExpectancy:   decimal.Zero,
	}
}

// Snapshot is the subset of terminal metric values a viability check
// reads. Callers build it from a metrics.Store (or a flushed
// MetricBuffer) after a run's End phase.
type Snapshot struct {
	SharpeRatio    float32
	SortinoRatio   float32
	MaxDrawdown    float32
	ProfitFactor   float32
	WinRate        float32
	NTrades        float32
	ExpectedPayoff float32
}

// Issue is one metric falling short of its threshold.
type Issue struct {
	Metric      string
	Actual      decimal.Decimal
	Required    decimal.Decimal
	Severity    string // "critical", "warning", "info"
	Description string
}

// Report is the outcome of one Check call.
type Report struct {
	IsViable  bool
	Score     int // 0-100
	Grade     string
	Issues    []Issue
	Strengths []string
	Summary   string
}

// Checker assesses a Snapshot against a fixed set of Thresholds.
type Checker struct {
	thresholds Thresholds
}

// NewChecker builds a Checker; a zero-value Thresholds argument uses
// DefaultThresholds.
func NewChecker(thresholds Thresholds) *Checker {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Checker{thresholds: thresholds}
}

// Check runs every threshold comparison against snap and scores the
// result with weighted scoring (return 30%, risk 30%, consistency 40% —
// this engine has no walk-forward robustness axis to weigh in, so its
// 20% share is folded into consistency instead).
func (c *Checker) Check(snap Snapshot) Report {
	var report Report

	c.checkSharpe(snap, &report)
	c.checkDrawdown(snap, &report)
	c.checkProfitFactor(snap, &report)
	c.checkWinRate(snap, &report)
	c.checkTradeCount(snap, &report)
	c.checkSortino(snap, &report)
	c.checkExpectancy(snap, &report)

	returnScore := returnScore(snap)
	riskScore := riskScore(snap)
	consistencyScore := consistencyScore(snap)
	report.Score = clamp((returnScore*30+riskScore*30+consistencyScore*40)/100, 0, 100)
	report.Grade = scoreToGrade(report.Score)
	report.IsViable = !hasCritical(report.Issues) && report.Score >= 60
	report.Summary = summarize(report)
	return report
}

func (c *Checker) checkSharpe(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.SharpeRatio)
	if actual.LessThan(c.thresholds.MinSharpeRatio) {
		severity := "warning"
		if actual.IsNegative() {
			severity = "critical"
		}
		report.Issues = append(report.Issues, Issue{
			Metric: "SharpeRatio", Actual: actual, Required: c.thresholds.MinSharpeRatio,
			Severity: severity, Description: "risk-adjusted return is below threshold",
		})
	} else if snap.SharpeRatio > 1.5 {
		report.Strengths = append(report.Strengths, "excellent risk-adjusted returns (Sharpe > 1.5)")
	}
}

func (c *Checker) checkDrawdown(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.MaxDrawdown)
	if actual.GreaterThan(c.thresholds.MaxDrawdown) {
		severity := "warning"
		if snap.MaxDrawdown > 0.30 {
			severity = "critical"
		}
		report.Issues = append(report.Issues, Issue{
			Metric: "MaxDrawdown", Actual: actual, Required: c.thresholds.MaxDrawdown,
			Severity: severity, Description: "maximum drawdown exceeds acceptable level",
		})
	} else if snap.MaxDrawdown < 0.10 {
		report.Strengths = append(report.Strengths, "low drawdown risk (< 10%)")
	}
}

func (c *Checker) checkProfitFactor(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.ProfitFactor)
	if actual.LessThan(c.thresholds.MinProfitFactor) {
		severity := "warning"
		if snap.ProfitFactor < 1.0 {
			severity = "critical"
		}
		report.Issues = append(report.Issues, Issue{
			Metric: "ProfitFactor", Actual: actual, Required: c.thresholds.MinProfitFactor,
			Severity: severity, Description: "profit factor is below threshold",
		})
	} else if snap.ProfitFactor > 2.0 {
		report.Strengths = append(report.Strengths, "strong profit factor (> 2.0)")
	}
}

func (c *Checker) checkWinRate(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.WinRate)
	if actual.LessThan(c.thresholds.MinWinRate) {
		severity := "warning"
		if snap.WinRate < 0.30 {
			severity = "critical"
		}
		report.Issues = append(report.Issues, Issue{
			Metric: "WinRate", Actual: actual, Required: c.thresholds.MinWinRate,
			Severity: severity, Description: "win rate is below threshold",
		})
	} else if snap.WinRate > 0.60 {
		report.Strengths = append(report.Strengths, "high win rate (> 60%)")
	}
}

func (c *Checker) checkTradeCount(snap Snapshot, report *Report) {
	if int(snap.NTrades) < c.thresholds.MinTrades {
		report.Issues = append(report.Issues, Issue{
			Metric: "NTrades", Actual: decimal.NewFromFloat32(snap.NTrades),
			Required: decimal.NewFromInt(int64(c.thresholds.MinTrades)),
			Severity: "warning", Description: "insufficient trades for statistical significance",
		})
	}
}

func (c *Checker) checkSortino(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.SortinoRatio)
	if actual.LessThan(c.thresholds.MinSortinoRatio) {
		report.Issues = append(report.Issues, Issue{
			Metric: "SortinoRatio", Actual: actual, Required: c.thresholds.MinSortinoRatio,
			Severity: "info", Description: "downside risk-adjusted return could be better",
		})
	} else if snap.SortinoRatio > 2.0 {
		report.Strengths = append(report.Strengths, "excellent downside protection (Sortino > 2.0)")
	}
}

func (c *Checker) checkExpectancy(snap Snapshot, report *Report) {
	actual := decimal.NewFromFloat32(snap.ExpectedPayoff)
	if actual.LessThanOrEqual(c.thresholds.MinExpectancy) {
		severity := "warning"
		if snap.ExpectedPayoff < 0 {
			severity = "critical"
		}
		report.Issues = append(report.Issues, Issue{
			Metric: "ExpectedPayoff", Actual: actual, Required: c.thresholds.MinExpectancy,
			Severity: severity, Description: "expected value per trade is too low or negative",
		})
	}
}

func returnScore(snap Snapshot) int {
	score := 50
	if snap.SharpeRatio > 0 {
		score += int(min32(30, snap.SharpeRatio*20))
	} else {
		score -= 20
	}
	if snap.SortinoRatio > 0 {
		score += int(min32(20, snap.SortinoRatio*10))
	}
	return clamp(score, 0, 100)
}

func riskScore(snap Snapshot) int {
	score := 100 - int(snap.MaxDrawdown*200)
	return clamp(score, 0, 100)
}

func consistencyScore(snap Snapshot) int {
	score := int(snap.WinRate * 60)
	if snap.ProfitFactor > 1 {
		score += int(min32(40, (snap.ProfitFactor-1)*20))
	}
	switch {
	case snap.NTrades >= 100:
		score += 20
	case snap.NTrades >= 50:
		score += 15
	case snap.NTrades >= 30:
		score += 10
	}
	return clamp(score, 0, 100)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func scoreToGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func hasCritical(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == "critical" {
			return true
		}
	}
	return false
}

func summarize(report Report) string {
	if !report.IsViable {
		critical := 0
		for _, i := range report.Issues {
			if i.Severity == "critical" {
				critical++
			}
		}
		if critical > 0 {
			return "strategy is not viable: critical issues present"
		}
		return "strategy does not meet minimum viability requirements"
	}
	switch report.Grade {
	case "A":
		return "excellent strategy with strong risk-adjusted returns and consistency"
	case "B":
		return "good strategy with acceptable metrics"
	case "C":
		return "adequate strategy, monitor closely"
	default:
		return "marginally viable strategy"
	}
}
