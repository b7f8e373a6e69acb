package environment

import (
	"os"
	"testing"

	"cine-circle/database"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// an unconnected client is enough to wire the collection references
func testMongoClient(t *testing.T) *mongo.Client {
	c, err := mongo.NewClient(options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	return c
}

func setAnalytics(t *testing.T, value string) {
	prev := os.Getenv("USE_ANALYTICS")
	t.Cleanup(func() { os.Setenv("USE_ANALYTICS", prev) })
	os.Setenv("USE_ANALYTICS", value)
}

// the default deployment runs without an analytics store: the shared influx
// connection is never opened, so wiring the models must not touch it
func TestNewEnvWithoutAnalyticsStore(t *testing.T) {

	setAnalytics(t, "NO")

	env := newEnv(testMongoClient(t), database.GetInfluxConnection())
	require.NotNil(t, env)

	// no influx handles, but everything else is wired
	assert.Nil(t, env.Tracker.VisitorAPI.WriteAPI)
	assert.Nil(t, env.Tracker.SearchAPI.WriteAPI)
	assert.NotNil(t, env.FeedModel.GetFollowingIDs)
	assert.NotNil(t, env.FeedModel.ListPosts)
	assert.NotNil(t, env.RecommendationModel.GetFollowerIDs)
	assert.NotNil(t, env.Requests)
}

func TestNewEnvWiresAnalyticsWhenEnabled(t *testing.T) {

	setAnalytics(t, "YES")

	// building the handles needs no reachable server
	influxClient := influxdb2.NewClient("http://localhost:9999", "test-token")
	defer influxClient.Close()

	env := newEnv(testMongoClient(t), &influxClient)

	assert.NotNil(t, env.Tracker.VisitorAPI.WriteAPI)
	assert.NotNil(t, env.Tracker.VisitorAPI.QueryAPI)
	assert.NotNil(t, env.Tracker.SearchAPI.WriteAPI)
}
