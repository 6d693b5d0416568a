package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/feed"
	"example.com/attendance/internal/ingest"
	"example.com/attendance/internal/stats"
	"example.com/attendance/internal/token"
	"example.com/attendance/internal/window"
)

func (e env) validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	raw := fs.String("token", "", "token to validate; read from stdin when empty")
	signed := fs.Bool("signed", false, "treat the token as a signed compact token")
	clockOf := e.clockFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	clk, err := clockOf()
	if err != nil {
		return err
	}

	input := *raw
	if input == "" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		input = string(data)
	}
	input = strings.TrimSpace(input)

	v := token.NewValidator(clk, token.WithSecret(e.cfg.CheckInTokenSecret))
	var result token.Result
	if *signed {
		result = v.ValidateSigned(input)
	} else {
		result = v.ValidatePayload([]byte(input))
	}
	return e.write(result)
}

func (e env) issue(args []string) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	email := fs.String("email", "", "member email (required)")
	membership := fs.String("membership", "", "membership type (required)")
	ttl := fs.Duration("ttl", e.cfg.CheckInTokenTTL, "token lifetime")
	clockOf := e.clockFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *email == "" || *membership == "" {
		return fmt.Errorf("%w: -email and -membership are required", errUsage)
	}
	clk, err := clockOf()
	if err != nil {
		return err
	}

	issuer := token.NewIssuer(clk, token.NewSigner(e.cfg.CheckInTokenSecret), *ttl)
	payload, signedToken, err := issuer.Issue(*email, *membership)
	if err != nil {
		return err
	}
	return e.write(struct {
		Token   string             `json:"token"`
		Payload token.CheckInToken `json:"payload"`
	}{Token: signedToken, Payload: payload})
}

func (e env) filter(args []string) error {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	snapshot := fs.String("snapshot", "", "snapshot file (required)")
	selector := fs.String("window", "", "today, week, month, year or custom")
	start := fs.String("start", "", "custom range start, YYYY-MM-DD")
	end := fs.String("end", "", "custom range end, YYYY-MM-DD")
	search := fs.String("search", "", "case-insensitive member name substring")
	status := fs.String("status", "", "active, completed or all")
	membership := fs.String("membership", "", "membership type or all")
	clockOf := e.clockFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	clk, err := clockOf()
	if err != nil {
		return err
	}
	snap, err := readSnapshot(*snapshot)
	if err != nil {
		return err
	}

	records := window.NewFilter(clk).Apply(snap.CheckIns, window.Query{
		Window:         window.ParseWindow(*selector),
		StartDate:      *start,
		EndDate:        *end,
		Search:         *search,
		Status:         domain.CheckInStatus(strings.ToLower(strings.TrimSpace(*status))),
		MembershipType: *membership,
	})
	return e.write(records)
}

func (e env) stats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	snapshot := fs.String("snapshot", "", "snapshot file (required)")
	member := fs.String("member", "", "member id; every member when empty")
	clockOf := e.clockFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	clk, err := clockOf()
	if err != nil {
		return err
	}
	snap, err := readSnapshot(*snapshot)
	if err != nil {
		return err
	}

	calc := stats.NewCalculator(clk)
	if *member != "" {
		return e.write(calc.Compute(snap.CheckIns, *member))
	}
	return e.write(calc.ComputeAll(snap.CheckIns))
}

func (e env) feed(args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	snapshot := fs.String("snapshot", "", "snapshot file (required)")
	page := fs.Int("page", 1, "1-based page number")
	pageSize := fs.Int("page-size", e.cfg.FeedPageSize, "entries per page")
	lookahead := fs.Int("lookahead", e.cfg.BirthdayLookaheadDays, "birthday reminder horizon in days; negative includes every member")
	clockOf := e.clockFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	clk, err := clockOf()
	if err != nil {
		return err
	}
	snap, err := readSnapshot(*snapshot)
	if err != nil {
		return err
	}

	members := snap.Members
	if *lookahead >= 0 {
		members = feed.UpcomingBirthdays(members, clk.Now(), *lookahead)
	}
	agg := feed.NewAggregator(clk, feed.WithMaxItems(e.cfg.FeedMaxItems), feed.WithPageSize(e.cfg.FeedPageSize))
	return e.write(agg.Build(snap.Activities, members, *page, *pageSize))
}

func (e env) publish(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	snapshot := fs.String("snapshot", "", "snapshot file (required)")
	topic := fs.String("topic", firstOr(e.cfg.ConsumerTopics, "attendance_events"), "destination topic")
	timeout := fs.Duration("timeout", 30*time.Second, "overall publish timeout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	snap, err := readSnapshot(*snapshot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	producer := ingest.NewKafkaProducer(e.cfg.KafkaBrokers)
	defer producer.Close()

	records := ingest.SnapshotRecords(snap)
	if err := ingest.NewPublisher(producer, *topic).Publish(ctx, records...); err != nil {
		return err
	}
	return e.write(struct {
		Topic     string `json:"topic"`
		Published int    `json:"published"`
	}{Topic: *topic, Published: len(records)})
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
