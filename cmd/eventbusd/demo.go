package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/eventcore/internal/eventcore"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "stats",
	Short: "Send a handful of events through an in-process bus and print the results",
	Long: `stats wires a guard filter and an echo listener onto the "ping"
channel of a fresh root manager, sends a small batch of events through it,
and prints what each one resolved to. It exists to show the address
resolution and filter-short-circuit rules without needing a running
process.`,
	RunE: runDemo,
}

// guardComponent short-circuits any ping event carrying blocked=true before
// the echo listener in the same bucket ever runs, demonstrating filter
// precedence (filters sort ahead of listeners within a bucket).
func newGuardComponent() *eventcore.Component {
	guard := eventcore.FilterWithEvent(func(_ context.Context, ev *eventcore.Event, _ []any, kwargs map[string]any) (any, error) {
		if blocked, ok := kwargs["blocked"].(bool); ok && blocked {
			return fmt.Sprintf("blocked:%s", ev.Name), nil
		}
		return nil, nil
	}, eventcore.OnChannels("ping"), eventcore.Named("guard"))
	return eventcore.NewComponent("guard", nil, []*eventcore.Handler{guard})
}

// echoComponent replies to anything that reaches it on "ping" with the
// first positional argument echoed back as "pong:<arg>". The correlation
// id the demo attaches to each event is not part of the reply.
func newEchoComponent() *eventcore.Component {
	echo := eventcore.Listener(func(_ context.Context, args []any, kwargs map[string]any) (any, error) {
		payload := ""
		if len(args) > 0 {
			payload = fmt.Sprintf("%v", args[0])
		}
		return fmt.Sprintf("pong:%s", payload), nil
	}, eventcore.OnChannels("ping"), eventcore.Named("echo"))
	return eventcore.NewComponent("echo", nil, []*eventcore.Handler{echo})
}

type demoCase struct {
	payload string
	blocked bool
}

func runDemo(cmd *cobra.Command, args []string) error {
	root := eventcore.NewManager(eventcore.WithManagerName("demo"))

	guard := newGuardComponent()
	echo := newEchoComponent()
	if err := guard.Register(root); err != nil {
		return fmt.Errorf("register guard: %w", err)
	}
	if err := echo.Register(root); err != nil {
		return fmt.Errorf("register echo: %w", err)
	}

	cases := []demoCase{
		{payload: "hello", blocked: false},
		{payload: "world", blocked: false},
		{payload: "classified", blocked: true},
	}

	ctx := context.Background()
	type row struct {
		id      string
		payload string
		blocked bool
		result  string
	}
	rows := make([]row, 0, len(cases))
	for _, c := range cases {
		correlationID := uuid.New().String()
		ev := eventcore.New("ping", c.payload).WithKwargs(map[string]any{
			"blocked":        c.blocked,
			"correlation_id": correlationID,
		})
		result, err := root.Send(ctx, ev, "ping", "")
		if err != nil {
			return fmt.Errorf("send %s: %w", correlationID, err)
		}
		rows = append(rows, row{
			id:      correlationID,
			payload: c.payload,
			blocked: c.blocked,
			result:  fmt.Sprintf("%v", result),
		})
	}

	tableString := &strings.Builder{}
	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Correlation ID", "Payload", "Blocked", "Result"})
	for _, r := range rows {
		blockedCell := color.GreenString("no")
		if r.blocked {
			blockedCell = color.RedString("yes")
		}
		table.Append([]string{r.id, r.payload, blockedCell, r.result})
	}
	table.Render()

	fmt.Fprintln(os.Stdout, tableString.String())
	return nil
}
