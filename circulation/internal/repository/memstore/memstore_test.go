package memstore

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
)

func TestStore_Atomic(t *testing.T) {
	tests := []struct {
		name       string
		ctx        func() context.Context
		fnErr      error
		wantErr    error
		wantStatus model.CopyStatus
	}{
		{
			name:       "commit",
			ctx:        context.Background,
			wantStatus: model.CopyReserved,
		},
		{
			name:       "fn error rolls back",
			ctx:        context.Background,
			fnErr:      errors.New("boom"),
			wantStatus: model.CopyAvailable,
		},
		{
			name: "cancelled context rolls back",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr:    context.Canceled,
			wantStatus: model.CopyAvailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.AddCopy(model.ItemCopy{ID: 7, ItemID: 1, Status: model.CopyAvailable}, model.CopyDetails{})

			err := s.Atomic(tt.ctx(), func(tx repository.ReservationRepository) error {
				if err := tx.SetCopyStatus(context.Background(), 7, model.CopyReserved); err != nil {
					return err
				}
				return tt.fnErr
			})
			switch {
			case tt.fnErr != nil:
				require.ErrorIs(t, err, tt.fnErr)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantStatus, s.Copy(7).Status)
		})
	}
}
