package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
)

// PickNotifier texts the strongest picks of a run to the configured
// numbers. It only ever fires after a non-dry-run enrichment pass.
type PickNotifier struct {
	sms       SMSService
	numbers   []string
	threshold float64
	logger    *logrus.Logger
}

func NewPickNotifier(sms SMSService, numbers []string, threshold float64, logger *logrus.Logger) *PickNotifier {
	return &PickNotifier{
		sms:       sms,
		numbers:   numbers,
		threshold: threshold,
		logger:    logger,
	}
}

// NotifyStrongPicks sends one message per recipient summarizing every pick
// whose edge clears the threshold. Returns the number of picks alerted.
func (n *PickNotifier) NotifyStrongPicks(props []models.EnrichedProp) int {
	if len(n.numbers) == 0 {
		return 0
	}

	var picks []string
	for _, p := range props {
		if p.EdgePct == nil || *p.EdgePct <= n.threshold || p.RecommendedSide == nil {
			continue
		}
		kelly := 0.0
		if p.KellyPct != nil {
			kelly = *p.KellyPct
		}
		picks = append(picks, fmt.Sprintf("%s %s %s %.1f (%+d) edge %.1f%% kelly %.1f%%",
			p.Player, *p.RecommendedSide, p.Prop, p.Line, p.Odds, *p.EdgePct*100, kelly*100))
	}
	if len(picks) == 0 {
		return 0
	}

	message := fmt.Sprintf("Week %d strong picks:\n%s", propsWeek(props), strings.Join(picks, "\n"))
	for _, number := range n.numbers {
		if err := n.sms.SendMessage(number, message); err != nil {
			n.logger.Warnf("Failed to send pick alert to %s: %v", number, err)
		}
	}
	return len(picks)
}

func propsWeek(props []models.EnrichedProp) int {
	if len(props) == 0 {
		return 0
	}
	return props[0].Week
}
