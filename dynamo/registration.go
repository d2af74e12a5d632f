package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/registration"
)

var _ registration.Repository = &DB{}

type registrationDynamo struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string

	ID         string
	Version    int
	Code       string
	UserID     string
	TicketID   string
	FormData   map[string]any
	RegStatus  string
	ReferredBy *string
	// The payment fields must be absent, not NULL, when unset: the
	// confirm condition checks attribute_not_exists.
	RazorpayOrderID   *string `dynamodbav:",omitempty"`
	RazorpayPaymentID *string `dynamodbav:",omitempty"`
	CheckedIn         bool
	CheckedInAt       *time.Time
	CheckedInBy       *string
	CreatedAt         time.Time
}

// regCodeDynamo is the guard item that makes the human-facing registration
// code unique: it is written in the same transaction as the registration,
// conditioned on not existing yet.
type regCodeDynamo struct {
	PK             string
	SK             string
	RegistrationID string
}

const (
	registrationEntityName = "REGISTRATION"
	regCodeEntityName      = "REGCODE"
)

func registrationPK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func registrationSK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func regCodeKey(code string) string {
	return fmt.Sprintf("%s#%s", regCodeEntityName, code)
}

func registrationToDynamo(reg registration.Registration) registrationDynamo {
	var checkedInBy *string
	if reg.CheckedInBy != nil {
		s := reg.CheckedInBy.String()
		checkedInBy = &s
	}

	return registrationDynamo{
		PK:                registrationPK(reg.ID),
		SK:                registrationSK(reg.ID),
		GSI1PK:            fmt.Sprintf("%s#%s", registrationEntityName, reg.UserID),
		GSI1SK:            fmt.Sprintf("%s#%s", registrationEntityName, reg.ID),
		ID:                reg.ID.String(),
		Version:           reg.Version,
		Code:              reg.Code,
		UserID:            reg.UserID.String(),
		TicketID:          reg.TicketID.String(),
		FormData:          reg.FormData,
		RegStatus:         string(reg.Status),
		ReferredBy:        reg.ReferredBy,
		RazorpayOrderID:   reg.RazorpayOrderID,
		RazorpayPaymentID: reg.RazorpayPaymentID,
		CheckedIn:         reg.CheckedIn,
		CheckedInAt:       reg.CheckedInAt,
		CheckedInBy:       checkedInBy,
		CreatedAt:         reg.CreatedAt,
	}
}

func dynamoToRegistration(dynReg registrationDynamo) registration.Registration {
	var checkedInBy *uuid.UUID
	if dynReg.CheckedInBy != nil {
		id := uuid.MustParse(*dynReg.CheckedInBy)
		checkedInBy = &id
	}

	return registration.Registration{
		ID:                uuid.MustParse(dynReg.ID),
		Version:           dynReg.Version,
		Code:              dynReg.Code,
		UserID:            uuid.MustParse(dynReg.UserID),
		TicketID:          uuid.MustParse(dynReg.TicketID),
		FormData:          dynReg.FormData,
		Status:            registration.Status(dynReg.RegStatus),
		ReferredBy:        dynReg.ReferredBy,
		RazorpayOrderID:   dynReg.RazorpayOrderID,
		RazorpayPaymentID: dynReg.RazorpayPaymentID,
		CheckedIn:         dynReg.CheckedIn,
		CheckedInAt:       dynReg.CheckedInAt,
		CheckedInBy:       checkedInBy,
		CreatedAt:         dynReg.CreatedAt,
	}
}

func (d *DB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	dynamoReg := registrationToDynamo(reg)

	regItem, err := attributevalue.MarshalMap(dynamoReg)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}
	regExpr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	codeItem, err := attributevalue.MarshalMap(regCodeDynamo{
		PK:             regCodeKey(reg.Code),
		SK:             regCodeKey(reg.Code),
		RegistrationID: reg.ID.String(),
	})
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration code to dynamo model", err)
	}
	codeExpr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:                 aws.String(d.tableName),
					Item:                      regItem,
					ConditionExpression:       regExpr.Condition(),
					ExpressionAttributeNames:  regExpr.Names(),
					ExpressionAttributeValues: regExpr.Values(),
				},
			},
			{
				Put: &types.Put{
					TableName:                 aws.String(d.tableName),
					Item:                      codeItem,
					ConditionExpression:       codeExpr.Condition(),
					ExpressionAttributeNames:  codeExpr.Names(),
					ExpressionAttributeValues: codeExpr.Values(),
				},
			},
		},
	})
	if err != nil {
		var transactionFailedErr *types.TransactionCanceledException
		if errors.As(err, &transactionFailedErr) {
			reasons := transactionFailedErr.CancellationReasons
			if len(reasons) == 2 && reasons[1].Code != nil && *reasons[1].Code == "ConditionalCheckFailed" {
				return registration.NewCodeAlreadyExistsError(fmt.Sprintf("Registration code %q is already taken", reg.Code), err)
			}
			return registration.NewFailedToWriteError(fmt.Sprintf("Registration with ID %q already exists", reg.ID), err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("CreateRegistration timed out")
		}
		return registration.NewFailedToWriteError("Failed TransactWriteItems call", err)
	}

	return nil
}

func (d *DB) GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.Registration{}, registration.NewTimeoutError("GetRegistration timed out")
		}
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration with ID %q not found", id), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

func (d *DB) SetRazorpayOrderID(ctx context.Context, id uuid.UUID, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(existingEntityConditional()).
		WithUpdate(expression.Set(expression.Name("RazorpayOrderID"), expression.Value(orderID))))

	_, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration with ID %q not found", id), err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("SetRazorpayOrderID timed out")
		}
		return registration.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	return nil
}

// ConfirmRegistrationPayment is the compare-and-set at the bottom of the
// payment verification path. The condition tolerates a replay carrying the
// payment reference we already stored, and rejects any write that would
// overwrite a different one, so concurrent first-time confirmations cannot
// both win.
func (d *DB) ConfirmRegistrationPayment(ctx context.Context, id uuid.UUID, paymentID string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	condition := existingEntityConditional().
		And(expression.Name("RazorpayPaymentID").AttributeNotExists().
			Or(expression.Name("RazorpayPaymentID").Equal(expression.Value(paymentID))))

	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(condition).
		WithUpdate(expression.
			Set(expression.Name("RegStatus"), expression.Value(string(registration.STATUS_CONFIRMED))).
			Set(expression.Name("RazorpayPaymentID"), expression.Value(paymentID))))

	_, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return registration.NewPaymentConflictError(fmt.Sprintf("Registration %q already holds a different payment reference", id), err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("ConfirmRegistrationPayment timed out")
		}
		return registration.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	return nil
}
