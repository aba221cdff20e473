package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_List_Validation(t *testing.T) {
	uc := usecase.NewAuditLogUsecase(new(AuditRepoMock))
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	_, err := uc.List(context.Background(), repo.AuditLogFilter{Limit: 201})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid limit")

	_, err = uc.List(context.Background(), repo.AuditLogFilter{Limit: 10, Offset: -1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid offset")

	_, err = uc.List(context.Background(), repo.AuditLogFilter{Limit: 10, CreatedFrom: &from, CreatedTo: &to})
	assertHTTPError(t, err, http.StatusBadRequest, "from must be <= to")
}

func TestAuditLogUsecase_List_NilBecomesEmpty(t *testing.T) {
	audit := new(AuditRepoMock)
	audit.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	logs, err := usecase.NewAuditLogUsecase(audit).List(context.Background(), repo.AuditLogFilter{Limit: 50})
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestAuditLogUsecase_List_PassesFilter(t *testing.T) {
	audit := new(AuditRepoMock)
	actor := int64(1)
	f := repo.AuditLogFilter{Limit: 50, ActorUserID: &actor}
	audit.On("List", mock.Anything, f).Return([]model.AuditLog{{ID: 1, ActorUserID: 1}}, nil)

	logs, err := usecase.NewAuditLogUsecase(audit).List(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
