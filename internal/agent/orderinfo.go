package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"elevate-agent/internal/model"
)

// defaultLookupTimeout caps how long an order lookup may take before the
// turn gives up and apologizes. The storefront's shared hosting sometimes
// hangs well past any useful reply window.
const defaultLookupTimeout = 8 * time.Second

var (
	orderIDRe = regexp.MustCompile(`(?i)(?:order[\s_]?id[\s:]*)?(\d{3,})`)
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

var (
	errNoOrderID     = errors.New("no order id in query")
	errEmailMismatch = errors.New("email does not match order")
	errOrderLookup   = errors.New("order lookup failed")
)

type orderFetch struct {
	order *model.OrderInfo
	err   error
}

// resolveOrder extracts an order ID (and optionally an email) from the
// query and fetches the order. When the query carries an email it must
// match the order's billing email.
//
// The fetch races a timeout; on timeout the in-flight request is abandoned
// rather than cancelled so a slow success can still warm the HTTP
// connection pool for the next turn.
func (a *Agent) resolveOrder(ctx context.Context, query string) (*model.OrderInfo, error) {
	idMatch := orderIDRe.FindStringSubmatch(query)
	if idMatch == nil {
		return nil, errNoOrderID
	}
	orderID, err := strconv.Atoi(idMatch[1])
	if err != nil {
		return nil, errNoOrderID
	}

	ch := make(chan orderFetch, 1)
	go func() {
		order, err := a.store.GetOrder(ctx, orderID)
		ch <- orderFetch{order: order, err: err}
	}()

	var order *model.OrderInfo
	select {
	case result := <-ch:
		if result.err != nil {
			a.logger.Warn("order lookup failed", "order_id", orderID, "error", result.err)
			return nil, fmt.Errorf("%w: %v", errOrderLookup, result.err)
		}
		order = result.order
	case <-time.After(a.lookupTimeout):
		a.logger.Warn("order lookup timed out", "order_id", orderID)
		return nil, errOrderLookup
	}

	if order.LineItems == nil {
		order.LineItems = []model.OrderLineItem{}
	}

	if email := emailRe.FindString(query); email != "" {
		if !strings.EqualFold(order.BillingEmail, email) {
			return nil, errEmailMismatch
		}
	}
	return order, nil
}

// formatOrderReply renders an order snapshot as the markdown card shown in
// chat. Absent fields render as N/A rather than dropping lines so the card
// shape stays stable.
func formatOrderReply(order *model.OrderInfo) string {
	if order == nil {
		return "Sorry, I couldn't find that order."
	}

	var items []string
	for _, item := range order.LineItems {
		items = append(items, fmt.Sprintf("- %s (৳%s, Qty: %d)", item.Name, item.Total, item.Quantity))
	}
	productLines := strings.Join(items, "\n")
	if productLines == "" {
		productLines = "No items found in this order."
	}

	total := "N/A"
	if order.Total != "" {
		total = "৳" + order.Total
	}

	return fmt.Sprintf(
		"**Order Details**\n"+
			"• Order ID: %d\n"+
			"• Status: %s\n"+
			"• Date: %s\n"+
			"• Payment Method: %s\n"+
			"• Total: %s\n\n"+
			"**Items:**\n%s",
		order.ID,
		orNA(order.Status),
		orNA(formatOrderDate(order.DateCreated)),
		orNA(order.PaymentMethodTitle),
		total,
		productLines,
	)
}

// formatOrderDate reformats the storefront's ISO timestamp for chat.
// Unparseable values pass through untouched.
func formatOrderDate(raw string) string {
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return raw
	}
	return t.Format("2 Jan 2006, 3:04 PM")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
