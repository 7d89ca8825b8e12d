package pregel_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/pregel"
)

func TestAggregate_UnionsPerRecipient(t *testing.T) {
	msgs := []pregel.Message{
		{To: ident.Q(1), Shape: "Human"},
		{To: ident.Q(1), Shape: "Human"}, // duplicate delivery collapses
		{To: ident.Q(1), Shape: "Author"},
		{To: ident.Q(2), Shape: "Human"},
	}

	merged := pregel.Aggregate(msgs)
	require.Len(t, merged, 2)
	require.ElementsMatch(t, []string{"Author", "Human"}, merged[ident.Q(1)].Names())
	require.ElementsMatch(t, []string{"Human"}, merged[ident.Q(2)].Names())
}

func TestAggregate_OrderInsensitive(t *testing.T) {
	msgs := []pregel.Message{
		{To: ident.Q(1), Shape: "A"},
		{To: ident.Q(2), Shape: "B"},
		{To: ident.Q(1), Shape: "C"},
		{To: ident.Q(3), Shape: "A"},
		{To: ident.Q(2), Shape: "A"},
	}
	shuffled := make([]pregel.Message, len(msgs))
	copy(shuffled, msgs)
	rand.New(rand.NewSource(3)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	require.Empty(t, cmp.Diff(pregel.Aggregate(msgs), pregel.Aggregate(shuffled)))
}

func TestAggregate_Empty(t *testing.T) {
	require.Empty(t, pregel.Aggregate(nil))
	require.Empty(t, pregel.Aggregate([]pregel.Message{}))
}
