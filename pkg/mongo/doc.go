// Package mongo connects to MongoDB with go.mongodb.org/mongo-driver/v2.
//
// New applies the pool settings from Config, pings the server and retries on
// failure; NewWithDatabase returns the configured database handle directly.
// Config is read from MONGODB_* environment variables.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
// Healthcheck wraps Ping as a readiness probe.
package mongo
