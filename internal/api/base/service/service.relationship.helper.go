package basesvc

import (
	"context"
	"fmt"

	"film_studio/internal/common"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipCheck dinh nghia mot quan he can kiem tra
type RelationshipCheck struct {
	CollectionName string
	FieldName      string
	ErrorMessage   string
	Optional       bool
}

// CheckRelationshipExists kiem tra co record nao trong collection khac dang tro toi record nay khong
func CheckRelationshipExists(ctx context.Context, recordID primitive.ObjectID, checks []RelationshipCheck) error {
	for _, check := range checks {
		collection, exists := global.RegistryCollections.Get(check.CollectionName)
		if !exists {
			if check.Optional {
				continue
			}
			return common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Khong tim thay collection '%s' de kiem tra quan he", check.CollectionName),
				common.StatusInternalServerError,
				nil,
			)
		}
		filter := bson.M{check.FieldName: recordID}
		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			return common.ConvertMongoError(err)
		}
		if count > 0 {
			errorMsg := check.ErrorMessage
			if errorMsg == "" {
				errorMsg = fmt.Sprintf("Khong the xoa record vi co %d record trong collection '%s' dang tham chieu toi record nay", count, check.CollectionName)
			} else {
				errorMsg = fmt.Sprintf(check.ErrorMessage, count)
			}
			return common.NewError(common.ErrCodeBusinessOperation, errorMsg, common.StatusConflict, nil)
		}
	}
	return nil
}

// CheckRelationshipExistsWithFilter kiem tra quan he voi filter tuy chinh
func CheckRelationshipExistsWithFilter(ctx context.Context, filter bson.M, checks []RelationshipCheck) error {
	for _, check := range checks {
		collection, exists := global.RegistryCollections.Get(check.CollectionName)
		if !exists {
			if check.Optional {
				continue
			}
			return common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Khong tim thay collection '%s' de kiem tra quan he", check.CollectionName),
				common.StatusInternalServerError,
				nil,
			)
		}
		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			return common.ConvertMongoError(err)
		}
		if count > 0 {
			errorMsg := check.ErrorMessage
			if errorMsg == "" {
				errorMsg = fmt.Sprintf("Khong the xoa record vi co %d record trong collection '%s' dang tham chieu toi record nay", count, check.CollectionName)
			} else {
				errorMsg = fmt.Sprintf(check.ErrorMessage, count)
			}
			return common.NewError(common.ErrCodeBusinessOperation, errorMsg, common.StatusConflict, nil)
		}
	}
	return nil
}

// GetRelationshipCount tra ve so luong record dang tham chieu toi record nay
func GetRelationshipCount(ctx context.Context, recordID primitive.ObjectID, collectionName, fieldName string) (int64, error) {
	collection, exists := global.RegistryCollections.Get(collectionName)
	if !exists {
		return 0, common.NewError(common.ErrCodeInternalServer, fmt.Sprintf("Khong tim thay collection '%s'", collectionName), common.StatusInternalServerError, nil)
	}
	filter := bson.M{fieldName: recordID}
	return collection.CountDocuments(ctx, filter)
}

// ValidateBeforeDeleteProject kiem tra cac quan he cua StoryProject truoc khi xoa
func ValidateBeforeDeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.StoryScenes, FieldName: "projectId", ErrorMessage: "Khong the xoa du an vi con %d phan canh truc thuoc. Vui long xoa cac phan canh truoc."},
		{CollectionName: global.MongoDB_ColNames.StoryUnits, FieldName: "projectId", ErrorMessage: "Khong the xoa du an vi con %d don vi noi dung truc thuoc. Vui long xoa cac don vi noi dung truoc."},
	}
	return CheckRelationshipExists(ctx, projectID, checks)
}

// ValidateBeforeDeleteScene kiem tra cac quan he cua StoryScene truoc khi xoa
func ValidateBeforeDeleteScene(ctx context.Context, sceneID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.StoryUnits, FieldName: "sceneId", ErrorMessage: "Khong the xoa phan canh vi con %d don vi noi dung truc thuoc. Vui long xoa cac don vi noi dung truoc."},
	}
	return CheckRelationshipExists(ctx, sceneID, checks)
}

// ValidateBeforeDeleteUnit kiem tra cac quan he cua StoryUnit truoc khi xoa
func ValidateBeforeDeleteUnit(ctx context.Context, unitID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.GenerationJobs, FieldName: "unitId", ErrorMessage: "Khong the xoa don vi noi dung vi co %d job sinh noi dung dang tham chieu. Vui long cho job hoan tat hoac huy job truoc."},
		{CollectionName: global.MongoDB_ColNames.ApprovalRegenerations, FieldName: "unitId", ErrorMessage: "Khong the xoa don vi noi dung vi co %d yeu cau sinh lai dang mo. Vui long xu ly cac yeu cau truoc."},
	}
	return CheckRelationshipExists(ctx, unitID, checks)
}

// ValidateBeforeDeleteUser kiem tra cac quan he cua User truoc khi xoa
func ValidateBeforeDeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	checks := []RelationshipCheck{
		{CollectionName: global.MongoDB_ColNames.StoryProjects, FieldName: "ownerId", ErrorMessage: "Khong the xoa user vi co %d du an thuoc so huu. Vui long chuyen quyen so huu hoac xoa du an truoc."},
		{CollectionName: global.MongoDB_ColNames.CreditAccounts, FieldName: "userId", ErrorMessage: "Khong the xoa user vi con %d tai khoan credit. Vui long xoa tai khoan credit truoc."},
	}
	return CheckRelationshipExists(ctx, userID, checks)
}
