package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/usecase"
)

// mockIndustryMultipleRepository はIndustryMultipleRepositoryインターフェースのモック実装です。
type mockIndustryMultipleRepository struct {
	FindByLevelFunc func(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error)
	ReplaceAllFunc  func(ctx context.Context, rows []entity.IndustryMultiple) error
}

func (m *mockIndustryMultipleRepository) FindByLevel(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error) {
	if m.FindByLevelFunc != nil {
		return m.FindByLevelFunc(ctx, level, name)
	}
	return nil, usecase.ErrMultipleNotFound
}

func (m *mockIndustryMultipleRepository) ReplaceAll(ctx context.Context, rows []entity.IndustryMultiple) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, rows)
	}
	return nil
}

func strptr(s string) *string { return &s }

// rowAt はテスト用に指定レベルでのみ一致する検索関数を返します。
func rowAt(level entity.MatchLevel, name string, row entity.IndustryMultiple) func(ctx context.Context, l entity.MatchLevel, n string) (*entity.IndustryMultiple, error) {
	return func(ctx context.Context, l entity.MatchLevel, n string) (*entity.IndustryMultiple, error) {
		if l == level && n == name {
			return &row, nil
		}
		return nil, usecase.ErrMultipleNotFound
	}
}

// TestResolve はサブセクターから業種への段階的フォールバックを検証します。
func TestResolve(t *testing.T) {
	t.Parallel()

	classification := entity.Classification{
		Industry:    "Manufacturing",
		SuperSector: strptr("Industrial Goods"),
		Sector:      strptr("Machinery"),
		SubSector:   strptr("Precision Machinery"),
	}

	tests := []struct {
		name          string
		findByLevel   func(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error)
		expectedLevel entity.MatchLevel
		expectedName  string
		expectDefault bool
	}{
		{
			name: "sub-sector match wins",
			findByLevel: rowAt(entity.MatchSubSector, "Precision Machinery",
				entity.IndustryMultiple{Industry: "Precision Machinery", EBITDAMultipleLow: 4.0, EBITDAMultipleHigh: 6.0}),
			expectedLevel: entity.MatchSubSector,
			expectedName:  "Precision Machinery",
		},
		{
			name: "falls back to sector",
			findByLevel: rowAt(entity.MatchSector, "Machinery",
				entity.IndustryMultiple{Industry: "Machinery", EBITDAMultipleLow: 3.8, EBITDAMultipleHigh: 5.8}),
			expectedLevel: entity.MatchSector,
			expectedName:  "Machinery",
		},
		{
			name: "falls back to super-sector",
			findByLevel: rowAt(entity.MatchSuperSector, "Industrial Goods",
				entity.IndustryMultiple{Industry: "Industrial Goods", EBITDAMultipleLow: 3.5, EBITDAMultipleHigh: 5.5}),
			expectedLevel: entity.MatchSuperSector,
			expectedName:  "Industrial Goods",
		},
		{
			name: "falls back to industry",
			findByLevel: rowAt(entity.MatchIndustry, "Manufacturing",
				entity.IndustryMultiple{Industry: "Manufacturing", EBITDAMultipleLow: 3.2, EBITDAMultipleHigh: 5.2}),
			expectedLevel: entity.MatchIndustry,
			expectedName:  "Manufacturing",
		},
		{
			name:          "nothing matches yields the default",
			findByLevel:   nil,
			expectedLevel: entity.MatchDefault,
			expectedName:  "Manufacturing",
			expectDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockIndustryMultipleRepository{FindByLevelFunc: tt.findByLevel}
			r := usecase.NewResolver(repo)

			resolved, err := r.Resolve(context.Background(), classification, "")

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLevel, resolved.MatchLevel)
			assert.Equal(t, tt.expectedName, resolved.IndustryName)
			assert.Equal(t, tt.expectDefault, resolved.IsDefault)
		})
	}
}

// TestResolve_Default はフォールバック値の中身を検証します。
func TestResolve_Default(t *testing.T) {
	t.Parallel()

	r := usecase.NewResolver(&mockIndustryMultipleRepository{})

	resolved, err := r.Resolve(context.Background(), entity.Classification{Industry: "Basket Weaving"}, "")

	assert.NoError(t, err)
	assert.True(t, resolved.IsDefault)
	assert.Equal(t, usecase.DefaultEBITDAMultipleLow, resolved.EBITDAMultipleLow)
	assert.Equal(t, usecase.DefaultEBITDAMultipleHigh, resolved.EBITDAMultipleHigh)
	if assert.NotNil(t, resolved.EBITDAMarginLow) {
		assert.Equal(t, usecase.DefaultAssumedMargin, *resolved.EBITDAMarginLow)
	}
}

// TestResolve_SubSectorOverride は明示的なサブセクター指定が分類パスより優先されることを検証します。
func TestResolve_SubSectorOverride(t *testing.T) {
	t.Parallel()

	repo := &mockIndustryMultipleRepository{
		FindByLevelFunc: rowAt(entity.MatchSubSector, "Custom Fabrication",
			entity.IndustryMultiple{Industry: "Custom Fabrication", EBITDAMultipleLow: 4.5, EBITDAMultipleHigh: 6.5}),
	}
	r := usecase.NewResolver(repo)

	classification := entity.Classification{
		Industry:  "Manufacturing",
		SubSector: strptr("Precision Machinery"),
	}

	resolved, err := r.Resolve(context.Background(), classification, "Custom Fabrication")

	assert.NoError(t, err)
	assert.Equal(t, entity.MatchSubSector, resolved.MatchLevel)
	assert.Equal(t, "Custom Fabrication", resolved.IndustryName)
}

// TestResolve_RepositoryError は検索自体の失敗がフォールバックせず伝播することを検証します。
func TestResolve_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := &mockIndustryMultipleRepository{
		FindByLevelFunc: func(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error) {
			return nil, errors.New("database connection failed")
		},
	}
	r := usecase.NewResolver(repo)

	_, err := r.Resolve(context.Background(), entity.Classification{Industry: "Manufacturing"}, "")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrMultipleNotFound)
}
