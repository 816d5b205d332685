package internal

import (
	"context"
	"fmt"
	"foodcourt/config"
	"foodcourt/entity"
	"foodcourt/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log"
	"strings"
	"time"
)

// Collection names match the document-store schema the storefront owns.
const (
	collectionLog       = "service_log"
	collectionMenuItems = "menuItems"
	collectionOrders    = "orders"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(m.ctx, data)
	return err
}

// GetMenuItems lists menu items, newest first, optionally filtered by
// category. Items sharing a name (case-insensitive) are collapsed to the
// most recently created one; older duplicates are a known artifact of the
// admin seeding scripts.
func (m *MongoDB) GetMenuItems(ctx context.Context, category string) ([]entity.MenuItem, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{}
	if category != "" {
		filter = bson.D{{Key: "category", Value: category}}
	}
	collection := connection.Database(m.database).Collection(collectionMenuItems)
	opt := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opt)
	if err != nil {
		return nil, err
	}
	var fetched []entity.MenuItem
	if err = cursor.All(ctx, &fetched); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	items := make([]entity.MenuItem, 0, len(fetched))
	for _, item := range fetched {
		name := strings.ToLower(item.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, item)
	}
	return items, nil
}

func (m *MongoDB) GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionMenuItems)
	filter := bson.D{{Key: "_id", Value: id}}
	var item entity.MenuItem
	if err = collection.FindOne(ctx, filter).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *MongoDB) CreateMenuItem(ctx context.Context, item *entity.MenuItem) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionMenuItems)
	_, err = collection.InsertOne(ctx, item)
	return err
}

func (m *MongoDB) UpdateMenuItem(ctx context.Context, item *entity.MenuItem) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionMenuItems)
	filter := bson.D{{Key: "_id", Value: item.Id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: item.Name},
			{Key: "price", Value: item.Price},
			{Key: "description", Value: item.Description},
			{Key: "category", Value: item.Category},
			{Key: "image", Value: item.Image},
			{Key: "updated_at", Value: item.UpdatedAt},
		}},
	}
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *MongoDB) DeleteMenuItem(ctx context.Context, id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionMenuItems)
	result, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *MongoDB) SaveOrder(ctx context.Context, order *entity.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "_id", Value: order.Id}}
	set := bson.M{"$set": order}
	collection := connection.Database(m.database).Collection(collectionOrders)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	var order entity.Order
	if err = collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) GetOrderByTxn(ctx context.Context, merchantTxnId string) (*entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	var order entity.Order
	filter := bson.D{{Key: "merchant_txn_id", Value: merchantTxnId}}
	if err = collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) GetOrders(ctx context.Context) ([]entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	opt := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.D{}, opt)
	if err != nil {
		return nil, err
	}
	var orders []entity.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (m *MongoDB) UpdateOrderStatus(ctx context.Context, id, status string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updated_at", Value: time.Now()},
		}},
	}
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *MongoDB) CountOrders(ctx context.Context) (int64, int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	total, err := collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, 0, err
	}
	completed, err := collection.CountDocuments(ctx, bson.D{{Key: "status", Value: entity.OrderCompleted}})
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
