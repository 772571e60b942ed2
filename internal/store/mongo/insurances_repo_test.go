package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/notifycsc/notify-csc/internal/core"
)

func TestCompileInsuranceFilter_Empty(t *testing.T) {
	got := compileInsuranceFilter(core.InsuranceFilter{})
	assert.Equal(t, bson.M{"$and": bson.A{notDeleted}}, got)
}

func TestCompileInsuranceFilter_FacetsAreAnded(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -10)
	to := today.AddDate(0, 0, -1)

	f := core.InsuranceFilter{}.
		WithSearch("kl.01").
		WithStatus(core.StatusExpired, today).
		WithExpiryBetween(&from, &to)

	got := compileInsuranceFilter(f)
	and, ok := got["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 4)

	assert.Equal(t, notDeleted, and[0])

	search := and[1].(bson.M)["$or"].(bson.A)
	require.Len(t, search, 4)
	assert.Equal(t, bson.M{"customerName": primitive.Regex{Pattern: `kl\.01`, Options: "i"}}, search[0])

	// Status and explicit range both constrain the same field without
	// overwriting each other.
	assert.Equal(t, bson.M{"policyExpiryDate": bson.M{"$lt": today}}, and[2])
	assert.Equal(t, bson.M{"policyExpiryDate": bson.M{"$gte": from, "$lt": today}}, and[3])
}

func TestCompileInsuranceFilter_ExactLookups(t *testing.T) {
	got := compileInsuranceFilter(core.InsuranceFilter{RegistrationNumber: "KL01AB1234", Mobile: "9876543210"})
	and := got["$and"].(bson.A)
	require.Len(t, and, 3)
	assert.Equal(t, bson.M{"registrationNumber": "KL01AB1234"}, and[1])
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"mobileNumber": "9876543210"},
		bson.M{"alternateMobileNumber": "9876543210"},
	}}, and[2])
}

func TestInsuranceSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "policyExpiryDate", Value: 1}, {Key: "_id", Value: 1}}, insuranceSort(core.SortByExpiryAsc))
	assert.Equal(t, bson.D{{Key: "policyExpiryDate", Value: -1}, {Key: "_id", Value: 1}}, insuranceSort(core.SortByExpiryDesc))
}

func TestPatchSetOnlyTouchesSetFields(t *testing.T) {
	name := "Anil K"
	expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	set := patchSet(core.InsurancePatch{CustomerName: &name, PolicyExpiryDate: &expiry})
	assert.Equal(t, bson.M{"customerName": "Anil K", "policyExpiryDate": expiry}, set)
}
