package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
)

const otherBizNo = "101-86-17326"

func (f *fixture) businesses() *usecase.BusinessUseCase {
	return usecase.NewBusinessUseCase(f.repos.Businesses, usecase.NewTenantGuard(f.repos.Businesses, f.repos.Users), f.activity)
}

func strPtr(s string) *string { return &s }

func TestBusiness_NumeroDuplicado(t *testing.T) {
	f := newFixture(t)
	uc := f.businesses()
	ctx := context.Background()
	second, err := uc.Create(ctx, f.actor, dto.CreateBusinessRequest{Name: "두번째상회", BusinessNumber: otherBizNo})
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
	}{
		{"create con número de un negocio activo", func() error {
			_, err := uc.Create(ctx, f.actor, dto.CreateBusinessRequest{Name: "복제", BusinessNumber: f.business.BusinessNumber})
			return err
		}},
		{"update al número de otro negocio activo", func() error {
			_, err := uc.Update(ctx, f.actor, second.ID, dto.UpdateBusinessRequest{BusinessNumber: strPtr(f.business.BusinessNumber)})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), domain.ErrBusinessNumberUsed)
		})
	}

	list, err := uc.List(ctx, f.actor)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBusiness_Update_MismoNumeroNoEsConflicto(t *testing.T) {
	f := newFixture(t)
	uc := f.businesses()

	out, err := uc.Update(context.Background(), f.actor, f.business.ID, dto.UpdateBusinessRequest{
		Name:           strPtr("  한빛상사 본점 "),
		BusinessNumber: strPtr(f.business.BusinessNumber),
	})
	require.NoError(t, err)
	assert.Equal(t, "한빛상사 본점", out.Name)
	assert.True(t, out.CheckDigitValid)
}

func TestBusiness_Delete_EsLogicoYOcultaDelListado(t *testing.T) {
	f := newFixture(t)
	uc := f.businesses()
	ctx := context.Background()
	second, err := uc.Create(ctx, f.actor, dto.CreateBusinessRequest{Name: "두번째상회", BusinessNumber: otherBizNo})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, f.actor, second.ID))

	list, err := uc.List(ctx, f.actor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.business.ID, list[0].ID)

	_, err = uc.Get(ctx, f.actor, second.ID)
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, f.actor, second.ID), domain.ErrBusinessNotFound)

	stored, err := f.repos.Businesses.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	// El número de un negocio desactivado vuelve a estar libre.
	_, err = uc.Create(ctx, f.actor, dto.CreateBusinessRequest{Name: "새상회", BusinessNumber: otherBizNo})
	assert.NoError(t, err)
}
