// Package main provides a one-shot promotion scorer for a piece of text.
// Reads text from arguments or stdin and prints the score as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"pumpwatch/internal/scoring"
)

func main() {
	promoCommunity := flag.Bool("promo-community", false, "Text was posted in a promotion-heavy community")
	newAccount := flag.Bool("new-account", false, "Text was posted by a new account")
	highEngagement := flag.Bool("high-engagement", false, "Post has unusually high engagement")
	threshold := flag.Int("threshold", scoring.DefaultPromotionThreshold, "Promotional classification cutoff")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: score [flags] <text> (or pipe text on stdin)")
		os.Exit(2)
	}

	scorer := scoring.NewScorer(nil)
	result := scorer.Score(text, &scoring.Context{
		IsPromotionSubreddit: *promoCommunity,
		IsNewAccount:         *newAccount,
		HasHighEngagement:    *highEngagement,
	})

	out := struct {
		Score         int      `json:"score"`
		IsPromotional bool     `json:"isPromotional"`
		Flags         []string `json:"flags"`
	}{
		Score:         result.Score,
		IsPromotional: result.Score >= *threshold,
		Flags:         result.Flags,
	}
	if out.Flags == nil {
		out.Flags = []string{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}
