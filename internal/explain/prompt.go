package explain

import (
	"fmt"

	"candle-analyzer/internal/models"
)

const promptTemplate = `As an expert forex trading analyst, provide a detailed explanation for the candlestick pattern: "%s".
This is known as a "%s" pattern that signals a potential "%s".

Structure your response in Markdown format with the following sections:

### Pattern Formation and Psychology
Explain how and why this pattern forms. Describe the battle between buyers (bulls) and sellers (bears) that leads to its specific shape.

### How to Identify
Provide a clear, bulleted list of criteria to identify the pattern on a chart. Be specific about candle colors, body sizes, and wick lengths.

### Trading Strategy
Outline a common trading strategy for this pattern. Include:
- **Entry Point:** Where a trader might enter a trade.
- **Stop-Loss:** Where to place a stop-loss to manage risk.
- **Profit Target:** How to determine potential profit targets.

### Confirmation Signals
What other indicators or price action should a trader look for to confirm the signal from this pattern? (e.g., volume, subsequent candles, support/resistance levels).

Keep the tone professional and educational.
`

// BuildPrompt builds the explanation request for a pattern.
func BuildPrompt(name string, patternType models.PatternType, trend models.Trend) string {
	return fmt.Sprintf(promptTemplate, name, patternType, trend)
}
