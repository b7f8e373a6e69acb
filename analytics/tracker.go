package analytics

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"cine-circle/client"
	"cine-circle/database"
	"cine-circle/helpers"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tracker writes visit and search events to the analytics cache (InfluxDB)
// and replicates aggregated counts into MongoDB
type Tracker struct {
	influxClient influxdb2.Client
	VisitorAPI   database.InfluxAPI
	SearchAPI    database.InfluxAPI
	collections  map[string]*mongo.Collection
	GetUserName  func(ID string) (string, error)
	Requests     *client.Registry
}

// Visit is one profile visit as sent to the client
type Visit struct {
	VisitTS  time.Time `json:"visitTS"`
	ObjectID string    `json:"-"`
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(influxClient *influxdb2.Client, mongoCollections map[string]*mongo.Collection) {
	t.influxClient = *influxClient
	t.collections = mongoCollections
}

// SaveVisitor stores event data in the analytics cache
func (t *Tracker) SaveVisitor(domain string, profileID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// include the object type (domain) in the key name so it can be
	// "unwrapped" again in aggregation queries

	p := influxdb2.NewPoint(
		"visit",
		map[string]string{"profileId": domain + "_" + profileID},
		map[string]interface{}{"userId": userID},
		time.Now())

	// ToDo: log write errors once a logging target is decided
	t.VisitorAPI.WriteAPI.WritePoint(context.Background(), p)
}

// SaveSearch stores catalogue searches in the analytics cache
func (t *Tracker) SaveSearch(searchTerm string, resultCount int) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// do not log any empty search (usually the catalogue start page)
	if searchTerm == "" {
		return
	}

	p := influxdb2.NewPoint(
		"search",
		map[string]string{"domain": "movie"},
		map[string]interface{}{
			"term":    searchTerm,
			"results": resultCount},
		time.Now())

	t.SearchAPI.WriteAPI.WritePoint(context.Background(), p)
}

// GetVisits counts the number of visits of a profile.
// The value is "live" - read from the analytics cache which keeps a
// maximum period (TTL) of 30 days; older visits live as aggregated
// counts on the MongoDB documents (see Replicate).
func (t *Tracker) GetVisits(domain string, profileID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and r["profileId"] == "%s")
		|> count()
		|> yield(name: "count")`

	id := domain + "_" + profileID
	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339),
		id)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// just one record
	var res interface{}
	for result.Next() {
		res = result.Record().Value()
	}

	var cnt int64 = 0
	if res != nil {
		cnt = res.(int64)
	}

	return cnt, nil
}

// ListVisitors returns the last visitors of a profile (last visit per user)
func (t *Tracker) ListVisitors(profileID string, startDT time.Time) ([]Visit, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return nil, nil
	}

	flux := `import "strings"
		from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and strings.containsStr(substr: "%s", v: r.profileId))
		|> group(columns: ["_value"], mode:"by")
		|> max(column: "_time")
		|> sort(columns: ["_time"], desc: true)
		|> limit(n:10, offset: 0)`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339),
		profileID)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var visit Visit
	var visits []Visit
	for result.Next() {
		visit.VisitTS = result.Record().Time()
		visit.ObjectID = profileID
		if result.Record().Value() == nil {
			visit.UserID = ""
			visit.UserName = ""
		} else {
			visit.UserID = result.Record().Value().(string)
			visit.UserName, _ = t.GetUserName(visit.UserID)
		}

		visits = append(visits, visit)
	}

	// the flux query sorts correctly, the slice arrives unordered anyway
	sort.Slice(visits, func(i, j int) bool {
		return visits[j].VisitTS.Before(visits[i].VisitTS)
	})

	return visits, nil
}

// Replicate moves aggregated visit counts from the cache (InfluxDB) into
// the database (Mongo); usually called hourly by a GO-routine
func (t *Tracker) Replicate() {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	ctx := context.Background()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Now().UTC().Location()) // just start somewhere as the minimum date
	stop := time.Now().AddDate(0, -1, 0)                                    // everything older than one month

	flux := `from(bucket: "%s")
	|> range(start: %s, stop: %s)
	|> filter(fn: (r) => r["_measurement"] == "visit")
	|> count()
	|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		start.Format(time.RFC3339),
		stop.Format(time.RFC3339))

	result, err := t.VisitorAPI.QueryAPI.Query(ctx, flux)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	// create a write model per collection; the object type is encoded
	// in the profileId key (domain_oid)
	opModels := make(map[string][]mongo.WriteModel)

	var strs []string
	for result.Next() {
		strs = strings.Split(result.Record().ValueByKey("profileId").(string), "_")

		operation := bson.D{
			{Key: "$inc", Value: bson.D{
				{Key: "metaInfo.visits", Value: result.Record().Value()},
			}},
		}

		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.D{{Key: "_id", Value: helpers.ObjectID(strs[1])}}).SetUpdate(operation)

		switch strs[0] {
		case "user":
			opModels["users"] = append(opModels["users"], opModel)
		case "movie":
			opModels["movies"] = append(opModels["movies"], opModel)
		default:
			fmt.Println("ERROR: replication not implemented for domain " + strs[0])
		}
	}

	var i int = 0
	for _, v := range opModels {
		i += len(v)
	}

	// abort if no data to process
	if i == 0 {
		fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), 0)
		return
	}

	opts := options.BulkWrite().SetOrdered(false)

	var cnt int64 = 0 // total replicated profile's visits

	for k, v := range opModels {
		if v != nil {
			res, err := t.collections[k].BulkWrite(ctx, v, opts)
			if err != nil {
				fmt.Println(helpers.WrapError(err, helpers.FuncName()))
				continue
			}
			cnt += res.MatchedCount
		}
	}

	fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), cnt)
}
