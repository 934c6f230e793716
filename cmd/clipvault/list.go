package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/store"
)

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded clipboard history",
		Long: `Lists history items grouped by capture date (in the local timezone).

Reads the history database directly; the monitor does not need to be running.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	f := cmd.Flags()
	f.Int("limit", 20, "maximum number of items to show")
	f.Bool("all", false, "show every item (ignores --limit)")
	f.String("search", "", "filter by substring in content, title or category")
	f.String("order", "newest", "sort order: newest|oldest")
	f.Bool("json", false, "output raw JSON")
	addDBFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func parseOrder(s string) (store.Order, error) {
	switch strings.ToLower(s) {
	case "newest", "desc":
		return store.Newest, nil
	case "oldest", "asc":
		return store.Oldest, nil
	default:
		return store.Newest, fmt.Errorf("unknown order %q (want newest or oldest)", s)
	}
}

func runList(v *viper.Viper) error {
	order, err := parseOrder(v.GetString("order"))
	if err != nil {
		return err
	}

	st, err := store.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var items []store.ClipItem
	if v.GetBool("all") && v.GetString("search") == "" {
		items, err = st.FetchAll(ctx, order)
	} else {
		limit := v.GetInt("limit")
		if v.GetBool("all") {
			limit = int(^uint(0) >> 1)
		}
		items, err = st.FetchRecent(ctx, limit, v.GetString("search"))
		if order == store.Oldest {
			reverse(items)
		}
	}
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		return printListJSON(items)
	}
	printList(items)
	return nil
}

func reverse(items []store.ClipItem) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

type listEntry struct {
	ID         int64     `json:"id"`
	CapturedAt time.Time `json:"captured_at_utc"`
	LocalDate  string    `json:"local_date"`
	Title      string    `json:"title,omitempty"`
	Category   string    `json:"category,omitempty"`
	Text       string    `json:"text"`
}

func printListJSON(items []store.ClipItem) error {
	entries := make([]listEntry, len(items))
	for i, it := range items {
		entries[i] = listEntry{
			ID:         it.ID,
			CapturedAt: it.CapturedAt,
			LocalDate:  it.LocalDate(),
			Title:      it.Title,
			Category:   it.Category,
			Text:       it.Text,
		}
	}
	enc, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}

func printList(items []store.ClipItem) {
	if len(items) == 0 {
		fmt.Println("No clipboard history yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	var lastDate string
	for _, it := range items {
		if date := it.LocalDate(); date != lastDate {
			if lastDate != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", date)
			lastDate = date
		}
		fmt.Fprintf(w, "  [%d]\t%s\t%s\n",
			it.ID,
			it.CapturedAt.Local().Format("15:04:05"),
			preview(it.Text),
		)
	}
	w.Flush()
}

// preview collapses an item onto one line, truncated for the table.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	// Truncate on rune boundaries so a multi-byte character is never split.
	runes := []rune(flat)
	if len(runes) > 80 {
		return string(runes[:77]) + "..."
	}
	return flat
}
