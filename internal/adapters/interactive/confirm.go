package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// ErrNoTerminal is returned when a confirmation is needed but stdin is not a terminal
var ErrNoTerminal = errors.New("mainnet confirmation requires a terminal; rerun with --non-interactive to skip it")

// MainnetConfirmer asks the operator before the harness spends funds on mainnet chains
type MainnetConfirmer struct {
	out      io.Writer
	terminal func() bool
	prompt   func(label string) (bool, error)
}

// NewMainnetConfirmer creates a confirmer reading from the process terminal
func NewMainnetConfirmer() *MainnetConfirmer {
	return &MainnetConfirmer{
		out: os.Stdout,
		terminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		prompt: confirmPrompt,
	}
}

// ConfirmMainnet lists the mainnet chains and asks for a yes/no answer
func (c *MainnetConfirmer) ConfirmMainnet(chains []domain.ChainInfo) (bool, error) {
	if !c.terminal() {
		return false, ErrNoTerminal
	}

	names := lo.Map(chains, func(ch domain.ChainInfo, _ int) string {
		return fmt.Sprintf("%s (%d)", ch.Name, ch.ChainID)
	})
	color.New(color.FgYellow, color.Bold).Fprintln(c.out, "Warning: the following mainnet chains are configured:")
	fmt.Fprintf(c.out, "  %s\n", strings.Join(names, "\n  "))

	return c.prompt("Spend real funds on these chains")
}

// confirmPrompt asks the user a yes/no question and returns their choice.
// Anything but an explicit yes, including ctrl-c, is a no.
func confirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
		return false, nil
	}
	return false, err
}

var _ usecase.MainnetConfirmer = (*MainnetConfirmer)(nil)
