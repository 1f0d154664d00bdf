package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
	"github.com/vaultpass/passgen-go/internal/strength"
)

const (
	exitCompromised  = 1
	exitUnavailable  = 2
	maxGenerateCount = 100
)

// exitError ends the process with code once its message, if any, has been
// printed by the command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "passgen",
		Short:         "Generate, score and breach-check passwords",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newStrengthCmd(), newCheckCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		length  int
		count   int
		upper   bool
		lower   bool
		numbers bool
		symbols bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random passwords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 || count > maxGenerateCount {
				return fmt.Errorf("--count must be between 1 and %d", maxGenerateCount)
			}
			if length < 1 {
				return service.ErrInvalidLength
			}

			gen := service.NewGeneratorService(nil)
			for i := 0; i < count; i++ {
				resp, err := gen.Generate(model.GenerateRequest{
					Length:    length,
					Uppercase: &upper,
					Lowercase: &lower,
					Numbers:   &numbers,
					Symbols:   &symbols,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Password)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&length, "length", "l", service.DefaultLength, "password length")
	f.BoolVar(&upper, "upper", true, "include uppercase letters")
	f.BoolVar(&lower, "lower", true, "include lowercase letters")
	f.BoolVar(&numbers, "numbers", true, "include digits")
	f.BoolVar(&symbols, "symbols", true, "include symbols")
	f.IntVarP(&count, "count", "n", 1, "number of passwords to generate")
	return cmd
}

func newStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength [password]",
		Short: "Score a password's strength (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args)
			if err != nil {
				return err
			}

			res := strength.Evaluate(password)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score:      %d/%d\n", res.Score, strength.MaxScore)
			fmt.Fprintf(out, "label:      %s\n", res.Label)
			fmt.Fprintf(out, "feedback:   %s\n", res.Feedback)
			fmt.Fprintf(out, "crack time: %s\n", res.CrackTime)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check [password]",
		Short: "Check a password against known data breaches (reads stdin when no argument is given)",
		Long: `Check a password against the Pwned Passwords corpus. Only the first five
characters of the password's SHA-1 hash are sent.

Exit status is 0 when the password was not found, 1 when it was found and 2
when the breach database could not be reached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args)
			if err != nil {
				return err
			}
			if password == "" {
				return service.ErrPasswordRequired
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			client := breach.NewClient(breach.Config{BaseURL: baseURL, Timeout: timeout})
			res := client.Check(ctx, password)

			out := cmd.OutOrStdout()
			switch res.Status {
			case breach.StatusCompromised:
				fmt.Fprintf(out, "compromised: seen %d times in known breaches\n", res.Count)
				return &exitError{code: exitCompromised}
			case breach.StatusClean:
				fmt.Fprintln(out, "clean: not found in known breaches")
				return nil
			default:
				fmt.Fprintln(out, "unavailable: the breach database could not be reached")
				return &exitError{code: exitUnavailable}
			}
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", breach.DefaultBaseURL, "range API base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", breach.DefaultTimeout, "lookup timeout")
	return cmd
}

// readPassword returns the single argument, or the first line of stdin.
func readPassword(cmd *cobra.Command, args []string) (string, error) {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		sc := bufio.NewScanner(cmd.InOrStdin())
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
			return "", errors.New("no password given")
		}
		password = strings.TrimRight(sc.Text(), "\r")
	}
	if len(password) > service.MaxPasswordLength {
		return "", service.ErrPasswordTooLong
	}
	return password, nil
}
