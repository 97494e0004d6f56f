package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
)

// ========================================
// BuildRecord 테스트
// ========================================

func TestBuildRecord_Success(t *testing.T) {
	t.Parallel()

	item := RawItem{
		Ref:         "  PROD-12345  ",
		Designation: "PC Portable ASUS VivoBook  15",
		Description: " Ordinateur portable 15.6 pouces ",
		Price:       "2 199,000 DT",
		Brand:       "ASUS",
		Category:    "Informatique > Ordinateurs Portables",
		Stock:       "En stock",
		URL:         " https://www.tunisianet.com.tn/pc-portable/prod-12345.html ",
		ImageURL:    "https://www.tunisianet.com.tn/images/prod-12345.jpg",
	}

	record, err := BuildRecord(item, "tunisianet")

	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "PROD-12345", record.Ref)
	assert.Equal(t, "PC Portable ASUS VivoBook 15", record.Designation)
	assert.Equal(t, "Ordinateur portable 15.6 pouces", record.Description)
	assert.InDelta(t, 2199.0, record.Price, 0.0001)
	assert.Equal(t, "ASUS", record.Brand)
	assert.Equal(t, "tunisianet", record.Company)
	assert.Equal(t, "Informatique", record.Category)
	assert.Equal(t, "Ordinateurs Portables", record.Subcategory)
	assert.Equal(t, StockInStock, record.Stock)
	assert.Equal(t, "https://www.tunisianet.com.tn/pc-portable/prod-12345.html", record.URL)

	// DateAdded와 History는 대사 단계에서 결정됩니다.
	assert.True(t, record.DateAdded.IsZero())
	assert.Nil(t, record.History)
}

func TestBuildRecord_Defaults(t *testing.T) {
	t.Parallel()

	record, err := BuildRecord(RawItem{
		Ref:         "PROD-001",
		Designation: "Clavier mécanique",
	}, "mytek")

	require.NoError(t, err)

	assert.Equal(t, DefaultBrand, record.Brand)
	assert.Equal(t, DefaultCategory, record.Category)
	assert.Empty(t, record.Subcategory)
	assert.Equal(t, StockUnknown, record.Stock)
	assert.Zero(t, record.Price)
}

func TestBuildRecord_MissingRef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ref  string
	}{
		{name: "빈 Ref", ref: ""},
		{name: "공백만 있는 Ref", ref: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			record, err := BuildRecord(RawItem{
				Ref:         tc.ref,
				Designation: "Souris sans fil",
			}, "tunisianet")

			require.Error(t, err)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, ErrNotIngestable)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		})
	}
}

func TestBuildRecord_InvalidPrice(t *testing.T) {
	t.Parallel()

	// 가격 파싱 실패는 상품 수집을 중단시키지 않고 0.0으로 대체됩니다.
	record, err := BuildRecord(RawItem{
		Ref:         "PROD-002",
		Designation: "Casque Gamer",
		Price:       "Prix sur demande",
	}, "tunisianet")

	require.NoError(t, err)
	assert.Zero(t, record.Price)
}
