package store

import (
	"context"
	"errors"
	"fmt"

	"learnhub/backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	batchGetLimit  = 100
	maxBatchRounds = 3
)

// DynamoDBClient is the subset of *dynamodb.Client the store uses.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

var _ DynamoDBClient = (*dynamodb.Client)(nil)

// Tables names the DynamoDB tables backing each collection.
type Tables struct {
	Courses               string
	Transactions          string
	TransactionsUserIndex string
	Progress              string
}

type dynamoStore struct {
	client DynamoDBClient
	tables Tables
}

type dynamoCourses struct{ *dynamoStore }
type dynamoTransactions struct{ *dynamoStore }
type dynamoProgress struct{ *dynamoStore }

func NewDynamoStore(client DynamoDBClient, tables Tables) *Store {
	ds := &dynamoStore{client: client, tables: tables}
	return &Store{
		Courses:      dynamoCourses{ds},
		Transactions: dynamoTransactions{ds},
		Progress:     dynamoProgress{ds},
		Purchases:    ds,
		Migrator:     ds,
	}
}

func (s dynamoCourses) List(ctx context.Context, category string) ([]models.Course, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.tables.Courses)}
	if category != "" {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name("category").Equal(expression.Value(category))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("build category filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return scanAll[models.Course](ctx, s.client, input)
}

func (s dynamoCourses) Get(ctx context.Context, courseID string) (*models.Course, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Courses),
		Key:       courseKey(courseID),
	})
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w", courseID, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var course models.Course
	if err := attributevalue.UnmarshalMap(out.Item, &course); err != nil {
		return nil, fmt.Errorf("unmarshal course %s: %w", courseID, err)
	}
	return &course, nil
}

func (s dynamoCourses) BatchGet(ctx context.Context, ids []string) ([]models.Course, error) {
	ids = uniqueStrings(ids)
	found := make(map[string]models.Course, len(ids))

	for start := 0; start < len(ids); start += batchGetLimit {
		end := min(start+batchGetLimit, len(ids))
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, courseKey(id))
		}

		request := map[string]types.KeysAndAttributes{s.tables.Courses: {Keys: keys}}
		for round := 0; len(request) > 0; round++ {
			if round == maxBatchRounds {
				return nil, fmt.Errorf("batch get courses: keys still unprocessed after %d rounds", maxBatchRounds)
			}
			out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("batch get courses: %w", err)
			}
			var courses []models.Course
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[s.tables.Courses], &courses); err != nil {
				return nil, fmt.Errorf("unmarshal courses: %w", err)
			}
			for _, course := range courses {
				found[course.CourseID] = course
			}
			request = out.UnprocessedKeys
		}
	}

	result := make([]models.Course, 0, len(found))
	for _, id := range ids {
		if course, ok := found[id]; ok {
			result = append(result, course)
		}
	}
	return result, nil
}

func (s dynamoCourses) Put(ctx context.Context, course *models.Course) error {
	item, err := attributevalue.MarshalMap(course)
	if err != nil {
		return fmt.Errorf("marshal course %s: %w", course.CourseID, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Courses),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put course %s: %w", course.CourseID, err)
	}
	return nil
}

func (s dynamoCourses) Delete(ctx context.Context, courseID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tables.Courses),
		Key:       courseKey(courseID),
	})
	if err != nil {
		return fmt.Errorf("delete course %s: %w", courseID, err)
	}
	return nil
}

func (s dynamoTransactions) List(ctx context.Context) ([]models.Transaction, error) {
	return scanAll[models.Transaction](ctx, s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tables.Transactions),
	})
}

func (s dynamoTransactions) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build user key condition: %w", err)
	}
	return queryAll[models.Transaction](ctx, s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Transactions),
		IndexName:                 aws.String(s.tables.TransactionsUserIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (s dynamoProgress) Get(ctx context.Context, userID, courseID string) (*models.UserCourseProgress, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Progress),
		Key:       progressKey(userID, courseID),
	})
	if err != nil {
		return nil, fmt.Errorf("get progress %s/%s: %w", userID, courseID, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var progress models.UserCourseProgress
	if err := attributevalue.UnmarshalMap(out.Item, &progress); err != nil {
		return nil, fmt.Errorf("unmarshal progress %s/%s: %w", userID, courseID, err)
	}
	return &progress, nil
}

func (s dynamoProgress) ListByUser(ctx context.Context, userID string) ([]models.UserCourseProgress, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build user key condition: %w", err)
	}
	return queryAll[models.UserCourseProgress](ctx, s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Progress),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (s dynamoProgress) Put(ctx context.Context, progress *models.UserCourseProgress) error {
	item, err := attributevalue.MarshalMap(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Progress),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put progress %s/%s: %w", progress.UserID, progress.CourseID, err)
	}
	return nil
}

// Fulfill writes the purchase records in one TransactWriteItems call. A
// user already enrolled in the course only gets the transaction recorded,
// so their progress and the enrollment list are left as they are. The
// course item is always last in the transaction, which is how a failed
// course condition is told apart from a duplicate transaction id.
func (s *dynamoStore) Fulfill(ctx context.Context, tx *models.Transaction, progress *models.UserCourseProgress, enrollment models.Enrollment) error {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tables.Courses),
		Key:            courseKey(tx.CourseID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get course %s: %w", tx.CourseID, err)
	}
	if out.Item == nil {
		return ErrNotFound
	}
	var course models.Course
	if err := attributevalue.UnmarshalMap(out.Item, &course); err != nil {
		return fmt.Errorf("unmarshal course %s: %w", tx.CourseID, err)
	}

	txItem, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	txExpr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("transactionId"))).
		Build()
	if err != nil {
		return fmt.Errorf("build transaction condition: %w", err)
	}
	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:                aws.String(s.tables.Transactions),
			Item:                     txItem,
			ConditionExpression:      txExpr.Condition(),
			ExpressionAttributeNames: txExpr.Names(),
		}},
	}

	courseExists := expression.AttributeExists(expression.Name("courseId"))
	if course.IsEnrolled(enrollment.UserID) {
		checkExpr, err := expression.NewBuilder().WithCondition(courseExists).Build()
		if err != nil {
			return fmt.Errorf("build course condition: %w", err)
		}
		items = append(items, types.TransactWriteItem{ConditionCheck: &types.ConditionCheck{
			TableName:                aws.String(s.tables.Courses),
			Key:                      courseKey(tx.CourseID),
			ConditionExpression:      checkExpr.Condition(),
			ExpressionAttributeNames: checkExpr.Names(),
		}})
	} else {
		progressItem, err := attributevalue.MarshalMap(progress)
		if err != nil {
			return fmt.Errorf("marshal progress: %w", err)
		}
		enrollments := expression.Name("enrollments")
		enrollExpr, err := expression.NewBuilder().
			WithUpdate(expression.Set(enrollments, expression.ListAppend(
				expression.IfNotExists(enrollments, expression.Value([]models.Enrollment{})),
				expression.Value([]models.Enrollment{enrollment}),
			))).
			WithCondition(courseExists).
			Build()
		if err != nil {
			return fmt.Errorf("build enrollment update: %w", err)
		}
		items = append(items,
			types.TransactWriteItem{Put: &types.Put{
				TableName: aws.String(s.tables.Progress),
				Item:      progressItem,
			}},
			types.TransactWriteItem{Update: &types.Update{
				TableName:                 aws.String(s.tables.Courses),
				Key:                       courseKey(tx.CourseID),
				UpdateExpression:          enrollExpr.Update(),
				ConditionExpression:       enrollExpr.Condition(),
				ExpressionAttributeNames:  enrollExpr.Names(),
				ExpressionAttributeValues: enrollExpr.Values(),
			}},
		)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
				continue
			}
			switch i {
			case 0:
				return ErrConflict
			case len(items) - 1:
				return ErrNotFound
			}
		}
	}
	return fmt.Errorf("fulfill purchase %s: %w", tx.TransactionID, err)
}

// Migrate creates the tables when they do not exist yet.
func (s *dynamoStore) Migrate(ctx context.Context) error {
	inputs := []*dynamodb.CreateTableInput{
		{
			TableName:   aws.String(s.tables.Courses),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("courseId"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("courseId"), KeyType: types.KeyTypeHash},
			},
		},
		{
			TableName:   aws.String(s.tables.Transactions),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("transactionId"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("userId"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("dateTime"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("transactionId"), KeyType: types.KeyTypeHash},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName: aws.String(s.tables.TransactionsUserIndex),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("userId"), KeyType: types.KeyTypeHash},
						{AttributeName: aws.String("dateTime"), KeyType: types.KeyTypeRange},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
			},
		},
		{
			TableName:   aws.String(s.tables.Progress),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("userId"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("courseId"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("userId"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("courseId"), KeyType: types.KeyTypeRange},
			},
		},
	}

	for _, input := range inputs {
		_, err := s.client.CreateTable(ctx, input)
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create table %s: %w", aws.ToString(input.TableName), err)
		}
	}
	return nil
}

func courseKey(courseID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"courseId": &types.AttributeValueMemberS{Value: courseID},
	}
}

func progressKey(userID, courseID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":   &types.AttributeValueMemberS{Value: userID},
		"courseId": &types.AttributeValueMemberS{Value: courseID},
	}
}

func scanAll[T any](ctx context.Context, client dynamodb.ScanAPIClient, input *dynamodb.ScanInput) ([]T, error) {
	out := []T{}
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", aws.ToString(input.TableName), err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal %s items: %w", aws.ToString(input.TableName), err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func queryAll[T any](ctx context.Context, client dynamodb.QueryAPIClient, input *dynamodb.QueryInput) ([]T, error) {
	out := []T{}
	paginator := dynamodb.NewQueryPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", aws.ToString(input.TableName), err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal %s items: %w", aws.ToString(input.TableName), err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
