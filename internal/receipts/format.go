package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/model"
)

const boxWidth = 62

// Format renders a receipt as a boxed block for terminal output.
func Format(r *model.Receipt) string {
	rule := strings.Repeat("═", boxWidth)
	var b strings.Builder

	line := func(label, value string) {
		text := fmt.Sprintf(" %s: %s", label, value)
		if n := len([]rune(text)); n < boxWidth {
			text += strings.Repeat(" ", boxWidth-n)
		} else {
			text = string([]rune(text)[:boxWidth])
		}
		b.WriteString("║" + text + "║\n")
	}

	b.WriteString("╔" + rule + "╗\n")
	title := "NEUTARO WALLET RECEIPT"
	pad := (boxWidth - len(title)) / 2
	b.WriteString("║" + strings.Repeat(" ", pad) + title + strings.Repeat(" ", boxWidth-pad-len(title)) + "║\n")
	b.WriteString("╠" + rule + "╣\n")
	line("Type", strings.ToUpper(string(r.Type)))
	line("Status", strings.ToUpper(string(r.Status)))
	line("Amount", r.DisplayAmount)
	b.WriteString("╠" + rule + "╣\n")
	line("From", r.FromAddress)
	line("To  ", r.ToAddress)
	b.WriteString("╠" + rule + "╣\n")
	line("Tx Hash", r.TxHash)
	line("Block", fmt.Sprint(r.Height))
	line("Gas Used", fmt.Sprint(r.GasUsed))
	line("Time", r.Timestamp.UTC().Format(time.RFC3339))
	if r.Memo != "" {
		line("Memo", r.Memo)
	}
	b.WriteString("╚" + rule + "╝")

	return b.String()
}
