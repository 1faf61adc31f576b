package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "create order")

	require.Equal(t, CodeDependency, err.Code())
	require.Equal(t, "create order", err.Message())
	require.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeSignature, "signature mismatch")
	outer := fmt.Errorf("callback rejected: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	require.Equal(t, CodeSignature, typed.Code())
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("BOGUS"))
	require.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestReconciliationGapIsNotRetryable(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(CodeReconciliation)
	require.False(t, meta.Retryable)
	require.True(t, meta.DetailsAllowed)
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("dial tcp: timeout")
	err := Wrap(CodeGateway, cause, "create gateway order")

	dump := Dump(err)
	require.Equal(t, string(CodeGateway), dump.Code)
	require.Len(t, dump.Chain, 2)
	require.Equal(t, "dial tcp: timeout", dump.Chain[1])
}
