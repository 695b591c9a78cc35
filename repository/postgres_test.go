package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListPapersQueryOrdersDeterministically(t *testing.T) {
	// created_at has finite precision, so two papers inserted in the same
	// instant need the id tie-breaker to keep the listing order stable
	// across queries.
	assert.Contains(t, listPapersQuery, "ORDER BY created_at DESC, id DESC")
}
