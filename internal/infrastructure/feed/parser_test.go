package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/septicstore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog date="2024-05-01 12:00">
<shop>
<name>Septic Store</name>
<categories>
<category id="1">Pumps</category>
<category id="2" parentId="1">Drainage pumps</category>
</categories>
<offers>
<offer id="A" available="true">
<name>Topas 5 Pump</name>
<price>1000</price>
<url>https://example.com/a</url>
<categoryId>1</categoryId>
<description>&lt;p&gt;Compact &amp;amp; quiet unit&lt;/p&gt;</description>
<param name="Brand">Topas</param>
<param name="User count">5</param>
</offer>
<offer id="B" available="false">
<name>Old Pump</name>
<price>500</price>
<categoryId>1</categoryId>
</offer>
<offer id="C">
<name>Unflagged Pump</name>
<price>700</price>
<categoryId>1</categoryId>
</offer>
<offer id="D" available="true">
<name>Mystery Station</name>
<price>not-a-number</price>
<categoryId>99</categoryId>
<param name="">Nameless</param>
<param name="Empty"></param>
</offer>
<offer available="true">
<name>No Id Station</name>
<price>100</price>
</offer>
</offers>
</shop>
</yml_catalog>`

func TestParseCatalog(t *testing.T) {
	snapshot, err := ParseCatalog(strings.NewReader(sampleFeed))
	require.NoError(t, err)

	t.Run("builds category index regardless of order", func(t *testing.T) {
		require.Len(t, snapshot.Categories, 2)
		assert.Equal(t, "Pumps", snapshot.Categories["1"].Name)
		assert.Equal(t, "1", snapshot.Categories["2"].ParentID)
		assert.Empty(t, snapshot.Categories["1"].ParentID)
	})

	t.Run("keeps only offers explicitly marked available", func(t *testing.T) {
		require.Len(t, snapshot.Products, 2)
		for _, p := range snapshot.Products {
			assert.NotEqual(t, "B", p.ID, "available=false offer must be excluded")
			assert.NotEqual(t, "C", p.ID, "offer without availability flag must be excluded")
		}
	})

	t.Run("drops offers without an id", func(t *testing.T) {
		for _, p := range snapshot.Products {
			assert.NotEmpty(t, p.ID)
			assert.NotEqual(t, "No Id Station", p.Name)
		}
	})

	t.Run("extracts scalar fields and params", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "A")
		assert.Equal(t, "Topas 5 Pump", p.Name)
		assert.Equal(t, 1000.0, p.Price)
		assert.Equal(t, "https://example.com/a", p.URL)
		assert.Equal(t, "1", p.CategoryID)
		assert.Equal(t, map[string]string{"Brand": "Topas", "User count": "5"}, p.Params)
	})

	t.Run("cleans double-encoded html in description", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "A")
		assert.Equal(t, "Compact & quiet unit", p.Description)
	})

	t.Run("resolves category name from the index", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "A")
		assert.Equal(t, "Pumps", p.CategoryName)
	})

	t.Run("leaves category name empty when unresolved", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "D")
		assert.Equal(t, "99", p.CategoryID)
		assert.Empty(t, p.CategoryName)
	})

	t.Run("defaults malformed price to zero", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "D")
		assert.Equal(t, 0.0, p.Price)
	})

	t.Run("skips params missing a name or a value", func(t *testing.T) {
		p := productByID(t, snapshot.Products, "D")
		assert.Empty(t, p.Params)
	})
}

func TestParseCatalog_Idempotent(t *testing.T) {
	first, err := ParseCatalog(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	second, err := ParseCatalog(strings.NewReader(sampleFeed))
	require.NoError(t, err)

	// Timestamps differ by construction; everything else must not
	first.FetchedAt = time.Time{}
	second.FetchedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestParseCatalog_Windows1251(t *testing.T) {
	doc := `<?xml version="1.0" encoding="windows-1251"?>
<yml_catalog><shop>
<categories><category id="1">Насосы</category></categories>
<offers><offer id="A" available="true"><name>Насос Топас 5</name><price>1000</price><categoryId>1</categoryId></offer></offers>
</shop></yml_catalog>`

	encoded, err := charmap.Windows1251.NewEncoder().String(doc)
	require.NoError(t, err)

	snapshot, err := ParseCatalog(strings.NewReader(encoded))
	require.NoError(t, err)

	require.Len(t, snapshot.Products, 1)
	assert.Equal(t, "Насос Топас 5", snapshot.Products[0].Name)
	assert.Equal(t, "Насосы", snapshot.Products[0].CategoryName)
}

func TestParseCatalog_Malformed(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader("<yml_catalog><shop>"))
	assert.Error(t, err)
}

func TestParseCatalog_Empty(t *testing.T) {
	snapshot, err := ParseCatalog(strings.NewReader(`<?xml version="1.0"?><yml_catalog><shop></shop></yml_catalog>`))
	require.NoError(t, err)
	assert.Empty(t, snapshot.Products)
	assert.Empty(t, snapshot.Categories)
}

func productByID(t *testing.T, products []domain.Product, id string) domain.Product {
	t.Helper()
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("product %q not found in snapshot", id)
	return domain.Product{}
}
