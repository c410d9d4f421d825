package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ProductsCollection        *mongo.Collection
	CategoriesCollection      *mongo.Collection
	CollectionsCollection     *mongo.Collection
	OrdersCollection          *mongo.Collection
	CartCollection            *mongo.Collection
	CouponsCollection         *mongo.Collection
	GiftCardsCollection       *mongo.Collection
	BannersCollection         *mongo.Collection
	BlogsCollection           *mongo.Collection
	SettingsCollection        *mongo.Collection
	UsersCollection           *mongo.Collection
	PendingPaymentsCollection *mongo.Collection
	ShipmentTasksCollection   *mongo.Collection
	Client                    *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("ayurkart")
	ProductsCollection = database.Collection("products")
	CategoriesCollection = database.Collection("categories")
	CollectionsCollection = database.Collection("collections")
	OrdersCollection = database.Collection("orders")
	CartCollection = database.Collection("cart")
	CouponsCollection = database.Collection("coupons")
	GiftCardsCollection = database.Collection("giftcards")
	BannersCollection = database.Collection("banners")
	BlogsCollection = database.Collection("blogs")
	SettingsCollection = database.Collection("settings")
	UsersCollection = database.Collection("users")
	PendingPaymentsCollection = database.Collection("pending_payments")
	ShipmentTasksCollection = database.Collection("shipment_tasks")
}

// EnsureIndexes creates the indexes the order and coupon flows rely on.
func EnsureIndexes(ctx context.Context) error {
	_, err := CouponsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_coupon_code"),
	})
	if err != nil {
		return err
	}
	_, err = GiftCardsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_giftcard_code"),
	})
	if err != nil {
		return err
	}
	_, err = PendingPaymentsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"providerOrderId": 1},
		Options: options.Index().SetUnique(true).SetName("unique_provider_order"),
	})
	if err != nil {
		return err
	}
	_, err = OrdersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}
	_, err = ShipmentTasksCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "nextAttemptAt", Value: 1}},
	})
	return err
}
