package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTranslateComparisonSelectSort(t *testing.T) {
	params, err := url.ParseQuery("averageCost[lte]=1000&select=name,careers&sort=-averageRating")
	require.NoError(t, err)

	d := Translate(params, nil)

	require.Equal(t, bson.M{"averageCost": bson.M{"$lte": float64(1000)}}, d.Filter)
	require.Equal(t, bson.M{"name": 1, "careers": 1}, d.Projection)
	require.Equal(t, bson.D{{Key: "averageRating", Value: -1}}, d.Sort)
	require.Equal(t, DefaultPage, d.Page)
	require.Equal(t, DefaultLimit, d.Limit)
}

func TestTranslateEquality(t *testing.T) {
	params := url.Values{"housing": {"true"}, "city": {"Boston"}}
	d := Translate(params, nil)
	require.Equal(t, bson.M{"housing": true, "city": "Boston"}, d.Filter)
}

func TestTranslateInOperator(t *testing.T) {
	params := url.Values{"careers[in]": {"Business,Data Science"}}
	d := Translate(params, nil)
	require.Equal(t, bson.M{"careers": bson.M{"$in": []interface{}{"Business", "Data Science"}}}, d.Filter)
}

func TestTranslateMergesOperatorsOnOneField(t *testing.T) {
	params := url.Values{"tuition[gte]": {"5000"}, "tuition[lte]": {"12000"}}
	d := Translate(params, nil)
	require.Equal(t, bson.M{"tuition": bson.M{"$gte": float64(5000), "$lte": float64(12000)}}, d.Filter)
}

func TestTranslateUnknownOperatorPassesThrough(t *testing.T) {
	params := url.Values{"averageCost[near]": {"1000"}}
	d := Translate(params, nil)
	require.Equal(t, bson.M{"averageCost": bson.M{"near": float64(1000)}}, d.Filter)
}

func TestTranslateStripsReservedKeys(t *testing.T) {
	params := url.Values{
		"select": {"name"},
		"sort":   {"name"},
		"page":   {"2"},
		"limit":  {"5"},
	}
	d := Translate(params, nil)
	require.Empty(t, d.Filter)
	require.Equal(t, 2, d.Page)
	require.Equal(t, 5, d.Limit)
}

func TestTranslateAllowList(t *testing.T) {
	params := url.Values{
		"tuition[lte]": {"9000"},
		"password":     {"sneaky"},
	}
	d := Translate(params, []Field{{Name: "tuition"}, {Name: "minimumSkill", String: true}})
	require.Equal(t, bson.M{"tuition": bson.M{"$lte": float64(9000)}}, d.Filter)
	require.NotContains(t, d.Filter, "password")
}

func TestTranslateStringFieldKeepsRawValue(t *testing.T) {
	// weeks is stored as a string; a numeric-looking value must stay a
	// string or the equality can never match.
	params := url.Values{"weeks": {"10"}}
	d := Translate(params, []Field{{Name: "weeks", String: true}})
	require.Equal(t, bson.M{"weeks": "10"}, d.Filter)
}

func TestTranslateStringFieldInOperator(t *testing.T) {
	params := url.Values{"weeks[in]": {"8,10"}}
	d := Translate(params, []Field{{Name: "weeks", String: true}})
	require.Equal(t, bson.M{"weeks": bson.M{"$in": []interface{}{"8", "10"}}}, d.Filter)
}

func TestTranslateOperatorWinsOverEquality(t *testing.T) {
	params := url.Values{"tuition": {"500"}, "tuition[gte]": {"100"}}
	d := Translate(params, nil)
	require.Equal(t, bson.M{"tuition": bson.M{"$gte": float64(100)}}, d.Filter)
}

func TestTranslateDefaults(t *testing.T) {
	d := Translate(url.Values{}, nil)
	require.Equal(t, 1, d.Page)
	require.Equal(t, 25, d.Limit)
	require.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, d.Sort)
	require.Nil(t, d.Projection)
	require.Empty(t, d.Filter)
}

func TestTranslateNonNumericPaging(t *testing.T) {
	params := url.Values{"page": {"abc"}, "limit": {"-3"}}
	d := Translate(params, nil)
	require.Equal(t, DefaultPage, d.Page)
	require.Equal(t, DefaultLimit, d.Limit)
}

func TestParseSortMultipleFields(t *testing.T) {
	sort := parseSort("name,-createdAt")
	require.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "createdAt", Value: -1},
	}, sort)
}

func TestParseSelectSpaceAndCommaInsensitive(t *testing.T) {
	require.Equal(t, bson.M{"name": 1, "careers": 1}, parseSelect("name, careers"))
	require.Equal(t, bson.M{"name": 1, "careers": 1}, parseSelect("name careers"))
}
