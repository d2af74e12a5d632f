package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/profiles"
)

var _ profiles.Repository = &DB{}

type profileDynamo struct {
	PK string
	SK string
	// Empty index key attributes are rejected by DynamoDB, so these are
	// omitted entirely for profiles without a referral code.
	GSI1PK string `dynamodbav:",omitempty"`
	GSI1SK string `dynamodbav:",omitempty"`

	ID           string
	FullName     string
	Email        string
	Phone        string
	ReferralCode *string
}

const (
	profileEntityName  = "PROFILE"
	referralEntityName = "REFERRAL"
)

func profilePK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", profileEntityName, id)
}

func profileSK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", profileEntityName, id)
}

func referralGSI1PK(code string) string {
	return fmt.Sprintf("%s#%s", referralEntityName, code)
}

func profileToDynamo(profile profiles.Profile) profileDynamo {
	dynProfile := profileDynamo{
		PK:           profilePK(profile.ID),
		SK:           profileSK(profile.ID),
		ID:           profile.ID.String(),
		FullName:     profile.FullName,
		Email:        profile.Email,
		Phone:        profile.Phone,
		ReferralCode: profile.ReferralCode,
	}

	// Profiles with a referral code are findable by it through GSI1.
	if profile.ReferralCode != nil {
		dynProfile.GSI1PK = referralGSI1PK(*profile.ReferralCode)
		dynProfile.GSI1SK = profilePK(profile.ID)
	}

	return dynProfile
}

func dynamoToProfile(profile profileDynamo) profiles.Profile {
	return profiles.Profile{
		ID:           uuid.MustParse(profile.ID),
		FullName:     profile.FullName,
		Email:        profile.Email,
		Phone:        profile.Phone,
		ReferralCode: profile.ReferralCode,
	}
}

func (d *DB) CreateProfile(ctx context.Context, profile profiles.Profile) error {
	item, err := attributevalue.MarshalMap(profileToDynamo(profile))
	if err != nil {
		return profiles.NewFailedToTranslateToDBModelError("Failed to translate profile to dynamo model", err)
	}
	expr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return profiles.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) GetProfile(ctx context.Context, id uuid.UUID) (profiles.Profile, error) {
	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: profilePK(id)},
			"SK": &types.AttributeValueMemberS{Value: profileSK(id)},
		},
	})
	if err != nil {
		return profiles.Profile{}, profiles.NewFailedToFetchError(fmt.Sprintf("Failed to fetch profile with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return profiles.Profile{}, profiles.NewProfileDoesNotExistError(fmt.Sprintf("Profile with ID %q not found", id), nil)
	}

	var dynProfile profileDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynProfile)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal profile from dynamo: %s", err))
	}

	return dynamoToProfile(dynProfile), nil
}

func (d *DB) GetProfileByReferralCode(ctx context.Context, code string) (profiles.Profile, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(referralGSI1PK(code)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return profiles.Profile{}, profiles.NewFailedToFetchError(fmt.Sprintf("Failed to query profiles by referral code %q", code), err)
	}

	if len(result.Items) == 0 {
		return profiles.Profile{}, profiles.NewReferralCodeDoesNotExistError(fmt.Sprintf("No profile holds referral code %q", code), nil)
	}

	var dynProfile profileDynamo
	err = attributevalue.UnmarshalMap(result.Items[0], &dynProfile)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal profile from dynamo: %s", err))
	}

	return dynamoToProfile(dynProfile), nil
}
