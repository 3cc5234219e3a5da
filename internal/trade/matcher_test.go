package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloop/marketplace/internal/client"
)

type fakePoolAPI struct {
	tradablePoolFn func(eventID, categoryID string) ([]client.Ticket, error)
	eventTicketsFn func(eventID string) ([]client.Ticket, error)
	eventDetailsFn func(eventID string) (client.EventDetails, error)

	tradablePoolCalls int
	eventTicketsCalls int
}

func (f *fakePoolAPI) TradablePool(_ context.Context, eventID, categoryID string) ([]client.Ticket, error) {
	f.tradablePoolCalls++
	if f.tradablePoolFn != nil {
		return f.tradablePoolFn(eventID, categoryID)
	}
	return nil, nil
}

func (f *fakePoolAPI) EventTickets(_ context.Context, eventID string) ([]client.Ticket, error) {
	f.eventTicketsCalls++
	if f.eventTicketsFn != nil {
		return f.eventTicketsFn(eventID)
	}
	return nil, nil
}

func (f *fakePoolAPI) EventDetails(_ context.Context, eventID string) (client.EventDetails, error) {
	if f.eventDetailsFn != nil {
		return f.eventDetailsFn(eventID)
	}
	return client.EventDetails{Artist: "The Goners", EventDate: "2026-10-01", EventTime: "20:00"}, nil
}

func ownTicket() client.Ticket {
	return client.Ticket{TicketID: "mine", UserID: "u1", EventID: "5", SeatID: "E05_A01_cat_1", Status: "sold"}
}

func TestEligibleFiltersOwnUnlistedAndVoided(t *testing.T) {
	cases := []struct {
		name   string
		ticket client.Ticket
		want   bool
	}{
		{"listed other user", client.Ticket{UserID: "u2", ListedForTrade: true, Status: "sold"}, true},
		{"own ticket", client.Ticket{UserID: "u1", ListedForTrade: true, Status: "sold"}, false},
		{"not listed", client.Ticket{UserID: "u2", ListedForTrade: false, Status: "sold"}, false},
		{"voided", client.Ticket{UserID: "u2", ListedForTrade: true, Status: "voided"}, false},
		{"cancelled mixed case", client.Ticket{UserID: "u2", ListedForTrade: true, Status: "Cancelled"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, eligible(tc.ticket, "u1"), tc.name)
	}
}

func TestFindCandidatesVoidedTicketMatchesNothing(t *testing.T) {
	api := &fakePoolAPI{}
	m := NewMatcher(api)

	tkt := ownTicket()
	tkt.Status = "voided"
	out, err := m.FindCandidates(context.Background(), tkt, tkt.SeatID)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, api.tradablePoolCalls, "a voided ticket short-circuits before any query")
}

func TestFindCandidatesFiltersPool(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(eventID, categoryID string) ([]client.Ticket, error) {
			assert.Equal(t, "5", eventID)
			assert.Equal(t, "cat_1", categoryID)
			return []client.Ticket{
				{TicketID: "a", UserID: "u2", SeatID: "E05_B01_cat_1", ListedForTrade: true, Status: "sold"},
				{TicketID: "b", UserID: "u1", SeatID: "E05_B02_cat_1", ListedForTrade: true, Status: "sold"},
				{TicketID: "c", UserID: "u3", SeatID: "E05_B03_cat_1", ListedForTrade: false, Status: "sold"},
				{TicketID: "d", UserID: "u4", SeatID: "E05_B04_cat_1", ListedForTrade: true, Status: "voided"},
			}, nil
		},
	}
	m := NewMatcher(api)

	out, err := m.FindCandidates(context.Background(), ownTicket(), "E05_A01_cat_1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].TicketID)
	assert.Equal(t, "B", out[0].Seat.Section)
	assert.Equal(t, "The Goners", out[0].EventTitle)
}

func TestFindCandidatesVIPCategory(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(_, categoryID string) ([]client.Ticket, error) {
			assert.Equal(t, "vip", categoryID)
			return nil, nil
		},
	}
	m := NewMatcher(api)

	tkt := ownTicket()
	tkt.SeatID = "E05_A01_vip"
	_, err := m.FindCandidates(context.Background(), tkt, tkt.SeatID)
	require.NoError(t, err)
	assert.Equal(t, 1, api.tradablePoolCalls)
}

func TestFindCandidatesFallbackOnEmptyPool(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(_, _ string) ([]client.Ticket, error) { return nil, nil },
		eventTicketsFn: func(_ string) ([]client.Ticket, error) {
			return []client.Ticket{
				{TicketID: "x", UserID: "u2", SeatID: "E05_C01_cat_1", ListedForTrade: true, Status: "sold"},
				{TicketID: "y", UserID: "u1", SeatID: "E05_C02_cat_1", ListedForTrade: true, Status: "sold"},
			}, nil
		},
	}
	m := NewMatcher(api)

	out, err := m.FindCandidates(context.Background(), ownTicket(), "E05_A01_cat_1")
	require.NoError(t, err)
	require.Len(t, out, 1, "fallback applies the same predicates")
	assert.Equal(t, "x", out[0].TicketID)
	assert.Equal(t, 1, api.eventTicketsCalls)
}

func TestFindCandidatesNoFallbackWhenPoolMatches(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(_, _ string) ([]client.Ticket, error) {
			return []client.Ticket{{TicketID: "a", UserID: "u2", ListedForTrade: true, Status: "sold"}}, nil
		},
	}
	m := NewMatcher(api)

	out, err := m.FindCandidates(context.Background(), ownTicket(), "E05_A01_cat_1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Zero(t, api.eventTicketsCalls, "the fallback only runs on an empty primary result")
}

func TestFindCandidatesDegradesWhenEverythingFails(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(_, _ string) ([]client.Ticket, error) { return nil, errors.New("pool down") },
		eventTicketsFn: func(_ string) ([]client.Ticket, error) { return nil, errors.New("tickets down") },
	}
	m := NewMatcher(api)

	out, err := m.FindCandidates(context.Background(), ownTicket(), "E05_A01_cat_1")
	require.NoError(t, err, "matching degrades to an empty pool instead of failing")
	assert.Empty(t, out)
}

func TestFindCandidatesMetadataFailureKeepsCandidates(t *testing.T) {
	api := &fakePoolAPI{
		tradablePoolFn: func(_, _ string) ([]client.Ticket, error) {
			return []client.Ticket{{TicketID: "a", UserID: "u2", SeatID: "E05_B01_cat_1", ListedForTrade: true, Status: "sold"}}, nil
		},
		eventDetailsFn: func(_ string) (client.EventDetails, error) {
			return client.EventDetails{}, errors.New("event service down")
		},
	}
	m := NewMatcher(api)

	out, err := m.FindCandidates(context.Background(), ownTicket(), "E05_A01_cat_1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].EventTitle, "metadata degrades to empty fields, candidates survive")
}
