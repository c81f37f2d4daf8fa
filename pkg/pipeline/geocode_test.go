package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/geocoder"
	"github.com/studyforge/studyforge/pkg/models"
)

const eventYML = `
name: Bitcoin Conf
type: conference
in_person: true
address: 1 Main Street, Lugano
`

func TestSyncGeocodesEventAddresses(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("events/2024-conf/event.yml", eventYML),
	))
	ts.geocoder.results["1 Main Street, Lugano"] = &geocoder.Result{
		PlaceID:   "42",
		Latitude:  46.0,
		Longitude: 8.95,
	}
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	require.True(t, report.Success(), "errors: %v", report.Errors)

	event := &models.Event{}
	err = db.NewSelect().Model(event).Where("id = ?", "2024-conf").Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, event.PlaceID)
	assert.Equal(t, "42", *event.PlaceID)
	require.NotNil(t, event.Latitude)
	assert.InDelta(t, 46.0, *event.Latitude, 0.001)
}

func TestSyncGeocodeMissIsAWarning(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("events/2024-conf/event.yml", eventYML),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)

	assert.True(t, report.Success())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "events/2024-conf", report.Warnings[0].Path)

	event := &models.Event{}
	err = db.NewSelect().Model(event).Where("id = ?", "2024-conf").Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, event.PlaceID)
}

func TestSyncSkipsAlreadyGeocodedRows(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("events/2024-conf/event.yml", eventYML),
	))
	ts.geocoder.results["1 Main Street, Lugano"] = &geocoder.Result{PlaceID: "42"}
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ts.geocoder.calls)

	// Unchanged address keeps its resolution; no second lookup.
	_, err = ts.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ts.geocoder.calls)
}

func TestSyncReGeocodesBuilderWhenAddressChanges(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/builders/acme/builder.yml", "name: acme\ncategory: exchange\naddress: Old Street 1\n"),
	))
	ts.geocoder.results["Old Street 1"] = &geocoder.Result{PlaceID: "old"}
	ts.geocoder.results["New Street 2"] = &geocoder.Result{PlaceID: "new"}
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	builder := &models.Builder{}
	err = db.NewSelect().Model(builder).Where("name = ?", "acme").Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, builder.PlaceID)
	assert.Equal(t, "old", *builder.PlaceID)

	ts.snapshotter.snapshot = snapshotOf(
		changedFile("resources/builders/acme/builder.yml", "name: acme\ncategory: exchange\naddress: New Street 2\n"),
	)

	_, err = ts.Sync(ctx)
	require.NoError(t, err)

	err = db.NewSelect().Model(builder).Where("name = ?", "acme").Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, builder.PlaceID)
	assert.Equal(t, "new", *builder.PlaceID)
	assert.Equal(t, 2, ts.geocoder.calls)
}
