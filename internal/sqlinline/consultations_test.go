package sqlinline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsultationHistoryOrdersTiesByInsertion(t *testing.T) {
	require.Contains(t, QSelectConsultationHistory, "order by created_at desc, seq desc")
	require.NotContains(t, QSelectConsultationHistory, "id desc")
}
