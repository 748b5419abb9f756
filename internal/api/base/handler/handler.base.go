package basehdl

// Package basehdl chứa các handler xử lý request HTTP trong ứng dụng.
// File này định nghĩa BaseHandler và các tiện ích parse/validate/transform dùng chung.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	basesvc "film_studio/internal/api/base/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// FilterOptions cấu hình cho việc validate filter
type FilterOptions struct {
	DeniedFields     []string // Các trường bị cấm filter
	AllowedOperators []string // Các operator MongoDB được phép
	MaxFields        int      // Số lượng field tối đa trong một filter
}

// BaseHandler là base handler cho các Fiber handler, cung cấp các chức năng CRUD cơ bản.
// Struct này sử dụng Generic Type để có thể tái sử dụng cho nhiều loại model khác nhau.
//
// Type parameters:
// - T: Kiểu dữ liệu của model
// - CreateInput: Kiểu dữ liệu của input khi tạo mới
// - UpdateInput: Kiểu dữ liệu của input khi cập nhật
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T] // Service xử lý logic nghiệp vụ với MongoDB
	filterOptions FilterOptions               // Cấu hình validate filter
}

// NewBaseHandler tạo mới một BaseHandler với BaseService được cung cấp
func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService: baseService,
		filterOptions: FilterOptions{
			DeniedFields: []string{
				"password",
				"token",
				"secret",
				"apiKey",
				"hash",
			},
			AllowedOperators: []string{
				"$eq",
				"$gt",
				"$gte",
				"$lt",
				"$lte",
				"$in",
				"$nin",
				"$exists",
			},
			MaxFields: 10,
		},
	}
}

// ====================================
// OWNER HELPER FUNCTIONS
// ====================================

// hasOwnerIDField kiểm tra model có field OwnerID không (dùng reflection)
// Field này dùng cho phân quyền dữ liệu - xác định dữ liệu thuộc về user nào
func (h *BaseHandler[T, CreateInput, UpdateInput]) hasOwnerIDField() bool {
	var zero T
	val := reflect.ValueOf(zero)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return false
	}

	field := val.FieldByName("OwnerID")
	return field.IsValid()
}

// GetCurrentUserID lấy user ID từ context (đã được middleware xác thực set)
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetCurrentUserID(c fiber.Ctx) *primitive.ObjectID {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok || userIDStr == "" {
		return nil
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}

// SetOwnerID tự động gán ownerId vào model (dùng reflection)
// CHỈ gán nếu model có field OwnerID và model chưa có giá trị (zero)
func (h *BaseHandler[T, CreateInput, UpdateInput]) SetOwnerID(model interface{}, ownerID primitive.ObjectID) {
	if !h.hasOwnerIDField() {
		return
	}

	if ownerID.IsZero() {
		return
	}

	val := reflect.ValueOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.FieldByName("OwnerID")
	if !field.IsValid() || !field.CanSet() {
		return
	}

	// Nếu đã có giá trị hợp lệ từ request body thì không override
	if current, ok := field.Interface().(primitive.ObjectID); ok {
		if !current.IsZero() {
			return
		}
		field.Set(reflect.ValueOf(ownerID))
	}
}

// GetOwnerIDFromModel lấy ownerId từ model (dùng reflection)
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetOwnerIDFromModel(model interface{}) *primitive.ObjectID {
	if !h.hasOwnerIDField() {
		return nil
	}

	val := reflect.ValueOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.FieldByName("OwnerID")
	if !field.IsValid() {
		return nil
	}

	if ownerID, ok := field.Interface().(primitive.ObjectID); ok && !ownerID.IsZero() {
		return &ownerID
	}
	return nil
}

// applyOwnerFilter tự động thêm filter ownerId theo user đang đăng nhập
// CHỈ áp dụng nếu model có field OwnerID (phân quyền dữ liệu)
func (h *BaseHandler[T, CreateInput, UpdateInput]) applyOwnerFilter(c fiber.Ctx, baseFilter bson.M) bson.M {
	if !h.hasOwnerIDField() {
		return baseFilter
	}

	userID := h.GetCurrentUserID(c)
	if userID == nil {
		return baseFilter
	}

	ownerFilter := bson.M{"ownerId": *userID}

	if len(baseFilter) == 0 {
		return ownerFilter
	}

	return bson.M{
		"$and": []bson.M{
			baseFilter,
			ownerFilter,
		},
	}
}

// ValidateOwnerAccess validate user có quyền truy cập document này không
// CHỈ validate nếu model có field OwnerID (phân quyền dữ liệu)
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateOwnerAccess(c fiber.Ctx, documentID string) error {
	if !h.hasOwnerIDField() {
		return nil
	}

	id, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err)
	}

	doc, err := h.BaseService.FindOneById(c.Context(), id)
	if err != nil {
		return err
	}

	docOwnerID := h.GetOwnerIDFromModel(doc)
	if docOwnerID == nil {
		return nil // Không có ownerId, không cần validate
	}

	userID := h.GetCurrentUserID(c)
	if userID == nil {
		return common.ErrTokenMissing
	}

	if *docOwnerID == *userID {
		return nil
	}

	return common.ErrNotOwner
}

// ====================================
// PARSE / VALIDATE
// ====================================

// ValidateInput thực hiện validate chi tiết dữ liệu đầu vào
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateInput(input interface{}) error {
	// Validate với validator từ global
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	// Kiểm tra các trường đặc biệt
	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	// Chỉ xử lý nếu input là struct
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		// Kiểm tra các trường string
		if field.Kind() == reflect.String {
			// Kiểm tra độ dài tối đa (nếu có tag maxLength)
			if maxTag := fieldType.Tag.Get("maxLength"); maxTag != "" {
				maxLen, err := strconv.Atoi(maxTag)
				if err == nil && len(field.String()) > maxLen {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Trường %s vượt quá độ dài cho phép (%d ký tự)", fieldType.Name, maxLen),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}

		// Kiểm tra các trường số
		if field.Kind() == reflect.Int || field.Kind() == reflect.Int64 {
			// Kiểm tra giá trị tối thiểu (nếu có tag min)
			if minTag := fieldType.Tag.Get("min"); minTag != "" {
				min, err := strconv.ParseInt(minTag, 10, 64)
				if err == nil && field.Int() < min {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Trường %s phải lớn hơn hoặc bằng %d", fieldType.Name, min),
						common.StatusBadRequest,
						nil,
					)
				}
			}

			// Kiểm tra giá trị tối đa (nếu có tag max)
			if maxTag := fieldType.Tag.Get("max"); maxTag != "" {
				max, err := strconv.ParseInt(maxTag, 10, 64)
				if err == nil && field.Int() > max {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Trường %s phải nhỏ hơn hoặc bằng %d", fieldType.Name, max),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}

	return nil
}

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
//
// Parameters:
// - c: Fiber context
// - input: Con trỏ tới struct sẽ chứa dữ liệu được parse
//
// Returns:
// - error: Lỗi nếu có trong quá trình parse hoặc validate
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// ParseRequestQuery parse và validate dữ liệu từ query string.
// Query string phải được encode dưới dạng JSON.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestQuery(c fiber.Ctx, input interface{}) error {
	query := c.Query("query", "")

	reader := bytes.NewReader([]byte(query))
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	// Validate struct
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// ParseRequestParams parse và validate các tham số từ URI.
// Sử dụng Fiber's URI binding để parse các tham số.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestParams(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().URI(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// ====================================
// FILTER / OPTIONS
// ====================================

// ProcessFilter xử lý và validate filter từ request
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (bson.M, error) {
	var filter map[string]interface{}

	// Parse filter từ query
	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị filter nhận được: %s", err, filterStr),
			common.StatusBadRequest,
			err,
		)
	}

	// Normalize filter: chuyển đổi các string ObjectId thành ObjectID
	filter = h.normalizeFilter(filter)

	// Validate filter
	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}

	return bson.M(filter), nil
}

// normalizeFilter chuyển đổi các string có format ObjectId thành ObjectID trong filter
// Hỗ trợ các trường có tên kết thúc bằng "Id" hoặc "ID"
func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilter(filter map[string]interface{}) map[string]interface{} {
	if filter == nil {
		return filter
	}

	normalized := make(map[string]interface{})
	for field, value := range filter {
		// Kiểm tra nếu field name kết thúc bằng "Id" hoặc "ID" (case-insensitive)
		fieldLower := strings.ToLower(field)
		isIDField := strings.HasSuffix(fieldLower, "id") && len(fieldLower) > 2

		normalized[field] = h.normalizeFilterValue(value, isIDField)
	}

	return normalized
}

// normalizeFilterValue chuyển đổi giá trị trong filter, hỗ trợ nested structures
func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilterValue(value interface{}, isIDField bool) interface{} {
	if value == nil {
		return value
	}

	// Hỗ trợ MongoDB Extended JSON format: {"$oid": "..."}
	if mapValue, ok := value.(map[string]interface{}); ok {
		if oidValue, hasOid := mapValue["$oid"]; hasOid {
			if oidStr, ok := oidValue.(string); ok {
				if primitive.IsValidObjectID(oidStr) {
					objID, err := primitive.ObjectIDFromHex(oidStr)
					if err == nil {
						return objID
					}
				}
			}
			// Nếu $oid không hợp lệ, trả về giá trị gốc
			return value
		}
	}

	// Nếu là string và field là ID field, thử chuyển đổi thành ObjectID
	if strValue, ok := value.(string); ok && isIDField {
		if primitive.IsValidObjectID(strValue) {
			objID, err := primitive.ObjectIDFromHex(strValue)
			if err == nil {
				return objID
			}
		}
		return strValue
	}

	// Nếu là mảng, xử lý từng phần tử
	if arrValue, ok := value.([]interface{}); ok {
		normalizedArr := make([]interface{}, len(arrValue))
		for i, item := range arrValue {
			normalizedArr[i] = h.normalizeFilterValue(item, isIDField)
		}
		return normalizedArr
	}

	// Nếu là map (cho các operator như $in, $nin, $eq, etc.), xử lý đệ quy
	if mapValue, ok := value.(map[string]interface{}); ok {
		normalizedMap := make(map[string]interface{})
		for key, val := range mapValue {
			// Đặc biệt xử lý $in và $nin - các giá trị trong mảng cần được chuyển đổi
			if (key == "$in" || key == "$nin") && isIDField {
				if arrVal, ok := val.([]interface{}); ok {
					normalizedArr := make([]interface{}, len(arrVal))
					for i, item := range arrVal {
						if strItem, ok := item.(string); ok && primitive.IsValidObjectID(strItem) {
							objID, err := primitive.ObjectIDFromHex(strItem)
							if err == nil {
								normalizedArr[i] = objID
							} else {
								normalizedArr[i] = item
							}
						} else {
							normalizedArr[i] = item
						}
					}
					normalizedMap[key] = normalizedArr
				} else {
					normalizedMap[key] = val
				}
			} else {
				// Xử lý các operator khác như $eq
				normalizedMap[key] = h.normalizeFilterValue(val, isIDField)
			}
		}
		return normalizedMap
	}

	return value
}

// validateFilter kiểm tra tính hợp lệ của filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]interface{}) error {
	deniedFields := h.filterOptions.DeniedFields
	if len(deniedFields) == 0 {
		deniedFields = []string{
			"password",
			"token",
			"secret",
			"apiKey",
			"hash",
		}
	}

	allowedOperators := h.filterOptions.AllowedOperators
	if len(allowedOperators) == 0 {
		allowedOperators = []string{
			"$eq",
			"$gt",
			"$gte",
			"$lt",
			"$lte",
			"$in",
			"$nin",
			"$exists",
		}
	}

	maxFields := h.filterOptions.MaxFields
	if maxFields == 0 {
		maxFields = 10
	}

	// Kiểm tra số lượng field
	if len(filter) > maxFields {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter vượt quá số lượng trường cho phép. Tối đa %d trường, hiện tại có %d trường. Vui lòng giảm số lượng trường trong filter.", maxFields, len(filter)),
			common.StatusBadRequest,
			nil,
		)
	}

	// Kiểm tra từng field và operator
	for field, value := range filter {
		// Kiểm tra field có bị cấm không
		if utility.Contains(deniedFields, field) {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Trường '%s' không được phép sử dụng trong filter vì lý do bảo mật. Vui lòng sử dụng các trường khác.", field),
				common.StatusBadRequest,
				nil,
			)
		}

		// Kiểm tra operator nếu value là map
		if mapValue, ok := value.(map[string]interface{}); ok {
			for op := range mapValue {
				if strings.HasPrefix(op, "$") && !utility.Contains(allowedOperators, op) {
					return common.NewError(
						common.ErrCodeValidationFormat,
						fmt.Sprintf("Toán tử MongoDB '%s' không được phép sử dụng. Các toán tử được phép: %v", op, allowedOperators),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}

	return nil
}

// processMongoOptions xử lý options từ query string và chuyển đổi sang MongoDB options
func (h *BaseHandler[T, CreateInput, UpdateInput]) processMongoOptions(c fiber.Ctx, isFindOne bool) (interface{}, error) {
	var rawOptions map[string]interface{}

	// Parse options từ query string
	optionsStr := c.Query("options", "{}")
	if err := json.Unmarshal([]byte(optionsStr), &rawOptions); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Options không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị options nhận được: %s", err, optionsStr),
			common.StatusBadRequest,
			err,
		)
	}

	// Validate options
	if err := h.validateMongoOptions(rawOptions); err != nil {
		return nil, err
	}

	// Helper function để parse sort map thông thường (fallback)
	parseSortMap := func(sortMap map[string]interface{}) bson.D {
		sortBson := bson.D{}
		for field, value := range sortMap {
			var sortValue int
			if v, ok := value.(float64); ok {
				sortValue = int(v)
			} else if v, ok := value.(int); ok {
				sortValue = v
			} else {
				continue
			}
			if sortValue != 1 && sortValue != -1 {
				continue
			}
			sortBson = append(sortBson, bson.E{Key: field, Value: sortValue})
		}
		return sortBson
	}

	// Parse sort với thứ tự được giữ nguyên từ JSON string gốc
	parseSortWithOrder := func(sortMap map[string]interface{}, optionsJSON string) (bson.D, error) {
		sortBson := bson.D{}

		// Parse lại phần sort từ JSON string gốc để giữ nguyên thứ tự các key
		var tempOptions map[string]json.RawMessage
		if err := json.Unmarshal([]byte(optionsJSON), &tempOptions); err != nil {
			return parseSortMap(sortMap), nil
		}

		sortRaw, ok := tempOptions["sort"]
		if !ok {
			return sortBson, nil
		}

		decoder := json.NewDecoder(bytes.NewReader(sortRaw))
		decoder.UseNumber()

		// Đọc token '{'
		token, err := decoder.Token()
		if err != nil || token != json.Delim('{') {
			return parseSortMap(sortMap), nil
		}

		// Parse từng key-value pair theo thứ tự trong JSON
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				break
			}
			field, ok := keyToken.(string)
			if !ok {
				continue
			}

			valueToken, err := decoder.Token()
			if err != nil {
				break
			}

			var sortValue int
			switch v := valueToken.(type) {
			case json.Number:
				intVal, err := v.Int64()
				if err != nil {
					floatVal, err := v.Float64()
					if err != nil {
						continue
					}
					intVal = int64(floatVal)
				}
				sortValue = int(intVal)
			case float64:
				sortValue = int(v)
			case int:
				sortValue = v
			default:
				continue
			}

			// Validate sort value (chỉ chấp nhận 1 hoặc -1)
			if sortValue != 1 && sortValue != -1 {
				continue
			}

			sortBson = append(sortBson, bson.E{Key: field, Value: sortValue})
		}

		// Đọc token '}'
		_, _ = decoder.Token()

		if len(sortBson) == 0 {
			return parseSortMap(sortMap), nil
		}

		return sortBson, nil
	}

	// Chuyển đổi sang MongoDB options
	if isFindOne {
		opts := mongoopts.FindOne()
		if projection, ok := rawOptions["projection"].(map[string]interface{}); ok {
			opts.SetProjection(projection)
		}
		if sort, ok := rawOptions["sort"].(map[string]interface{}); ok {
			sortBson, err := parseSortWithOrder(sort, optionsStr)
			if err != nil {
				return nil, common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Lỗi khi parse sort options: %v", err),
					common.StatusBadRequest,
					err,
				)
			}
			opts.SetSort(sortBson)
		}
		return opts, nil
	}

	opts := mongoopts.Find()
	if projection, ok := rawOptions["projection"].(map[string]interface{}); ok {
		opts.SetProjection(projection)
	}
	if sort, ok := rawOptions["sort"].(map[string]interface{}); ok {
		sortBson, err := parseSortWithOrder(sort, optionsStr)
		if err != nil {
			return nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi khi parse sort options: %v", err),
				common.StatusBadRequest,
				err,
			)
		}
		opts.SetSort(sortBson)
	}
	if limit, ok := rawOptions["limit"].(float64); ok {
		opts.SetLimit(int64(limit))
	}
	if skip, ok := rawOptions["skip"].(float64); ok {
		opts.SetSkip(int64(skip))
	}
	return opts, nil
}

// validateMongoOptions kiểm tra tính hợp lệ của các options
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateMongoOptions(options map[string]interface{}) error {
	deniedFields := h.filterOptions.DeniedFields
	if len(deniedFields) == 0 {
		deniedFields = []string{
			"password",
			"token",
			"secret",
			"apiKey",
			"hash",
		}
	}

	// Danh sách các options được phép
	allowedOptions := map[string]bool{
		"projection": true,
		"sort":       true,
		"limit":      true,
		"skip":       true,
	}

	// Kiểm tra các options không hợp lệ
	for key := range options {
		if !allowedOptions[key] {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Option '%s' không được hỗ trợ. Các options được phép: projection, sort, limit, skip", key),
				common.StatusBadRequest,
				nil,
			)
		}
	}

	// Validate projection
	if projection, ok := options["projection"].(map[string]interface{}); ok {
		for field := range projection {
			if utility.Contains(deniedFields, field) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Trường '%s' không được phép sử dụng trong projection vì lý do bảo mật", field),
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	// Validate sort
	if sort, ok := options["sort"].(map[string]interface{}); ok {
		for field, value := range sort {
			if utility.Contains(deniedFields, field) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Trường '%s' không được phép sử dụng trong sort vì lý do bảo mật", field),
					common.StatusBadRequest,
					nil,
				)
			}
			if v, ok := value.(float64); !ok || (v != 1 && v != -1) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Giá trị sort cho trường '%s' phải là 1 (tăng dần) hoặc -1 (giảm dần), giá trị hiện tại: %v", field, value),
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	// Validate limit
	if limit, ok := options["limit"].(float64); ok {
		if limit <= 0 {
			return common.NewError(
				common.ErrCodeValidationFormat,
				"Giá trị limit phải lớn hơn 0",
				common.StatusBadRequest,
				nil,
			)
		}
		if limit > 1000 {
			return common.NewError(
				common.ErrCodeValidationFormat,
				"Giá trị limit không được vượt quá 1000 để đảm bảo hiệu năng hệ thống",
				common.StatusBadRequest,
				nil,
			)
		}
	}

	// Validate skip
	if skip, ok := options["skip"].(float64); ok {
		if skip < 0 {
			return common.NewError(
				common.ErrCodeValidationFormat,
				"Giá trị skip không được âm",
				common.StatusBadRequest,
				nil,
			)
		}
	}

	return nil
}

// ParsePagination xử lý việc parse thông tin phân trang từ request.
// Hỗ trợ các tham số:
// - page: Số trang (mặc định: 1)
// - limit: Số lượng item trên một trang (mặc định: 10)
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParsePagination(c fiber.Ctx) (int64, int64) {
	page := utility.P2Int64(c.Query("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit := utility.P2Int64(c.Query("limit", "10"))
	if limit <= 0 {
		limit = 10
	}

	return page, limit
}

// GetIDFromContext lấy ID từ URI params của request.
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetIDFromContext(c fiber.Ctx) string {
	return c.Params("id")
}

// ====================================
// TRANSFORM DTO → MODEL
// ====================================

// TransformCreateInputToModel transform CreateInput (DTO) sang Model (T)
// Sử dụng struct tag `transform` để tự động convert các field (ví dụ: string → ObjectID)
// Hỗ trợ map field từ DTO sang Model với tên khác nhau thông qua option `map=<field_name>`
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformCreateInputToModel(input *CreateInput) (*T, error) {
	return transformInputToModel[T](input)
}

// TransformUpdateInputToModel transform UpdateInput (DTO) sang Model (T)
// Cùng cơ chế với TransformCreateInputToModel (struct tag transform, hỗ trợ nested struct)
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformUpdateInputToModel(input *UpdateInput) (*T, error) {
	return transformInputToModel[T](input)
}

// transformInputToModel transform DTO sang Model dựa trên struct tag `transform`
func transformInputToModel[T any](input interface{}) (*T, error) {
	model := new(T)

	inputVal := reflect.ValueOf(input)
	if inputVal.Kind() == reflect.Ptr {
		inputVal = inputVal.Elem()
	}
	if inputVal.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input phải là struct hoặc pointer đến struct")
	}

	modelVal := reflect.ValueOf(model)
	if modelVal.Kind() == reflect.Ptr {
		modelVal = modelVal.Elem()
	}
	if modelVal.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model phải là struct hoặc pointer đến struct")
	}

	inputType := inputVal.Type()
	modelType := modelVal.Type()

	// Duyệt qua tất cả các field trong DTO
	for i := 0; i < inputVal.NumField(); i++ {
		inputField := inputVal.Field(i)
		inputFieldType := inputType.Field(i)

		// Bỏ qua field không export được
		if !inputField.CanInterface() {
			continue
		}

		fieldValue := inputField.Interface()

		// Kiểm tra có transform tag không
		transformTag := inputFieldType.Tag.Get("transform")
		if transformTag != "" {
			transformConfig, err := utility.ParseTransformTag(transformTag)
			if err != nil {
				return nil, fmt.Errorf("lỗi parse transform tag cho field %s: %w", inputFieldType.Name, err)
			}

			// Xác định field target trong Model
			targetFieldName := inputFieldType.Name // Mặc định: cùng tên
			if transformConfig.MapTo != "" {
				targetFieldName = transformConfig.MapTo
			}

			// Tìm field trong Model
			modelField, found := modelType.FieldByName(targetFieldName)
			if !found {
				if transformConfig.Optional {
					continue
				}
				return nil, fmt.Errorf("không tìm thấy field '%s' trong Model (map từ field '%s' trong DTO)", targetFieldName, inputFieldType.Name)
			}

			// Transform giá trị
			transformedValue, err := utility.TransformFieldValue(fieldValue, transformConfig, modelField.Type)
			if err != nil {
				if transformConfig.Optional {
					continue
				}
				return nil, fmt.Errorf("lỗi transform field '%s' sang '%s': %w", inputFieldType.Name, targetFieldName, err)
			}

			// Set giá trị vào Model field
			modelFieldVal := modelVal.FieldByName(targetFieldName)
			if !modelFieldVal.IsValid() || !modelFieldVal.CanSet() {
				return nil, fmt.Errorf("không thể set giá trị vào field '%s' trong Model", targetFieldName)
			}

			if transformedValue != nil {
				transformedVal := reflect.ValueOf(transformedValue)
				if transformedVal.Type().AssignableTo(modelFieldVal.Type()) {
					modelFieldVal.Set(transformedVal)
				} else if transformedVal.Type().ConvertibleTo(modelFieldVal.Type()) {
					modelFieldVal.Set(transformedVal.Convert(modelFieldVal.Type()))
				} else {
					return nil, fmt.Errorf("không thể convert giá trị từ type %v sang type %v cho field '%s'", transformedVal.Type(), modelFieldVal.Type(), targetFieldName)
				}
			} else if transformConfig.Optional {
				continue
			}
		} else {
			// Không có transform tag → copy trực tiếp nếu field cùng tên và type tương thích
			targetFieldName := inputFieldType.Name
			_, found := modelType.FieldByName(targetFieldName)
			if !found {
				continue
			}

			modelFieldVal := modelVal.FieldByName(targetFieldName)
			if !modelFieldVal.IsValid() || !modelFieldVal.CanSet() {
				continue
			}

			inputValReflect := reflect.ValueOf(fieldValue)
			if inputValReflect.Type().AssignableTo(modelFieldVal.Type()) {
				modelFieldVal.Set(inputValReflect)
			} else if inputValReflect.Type().ConvertibleTo(modelFieldVal.Type()) {
				modelFieldVal.Set(inputValReflect.Convert(modelFieldVal.Type()))
			}
			// Nếu không tương thích → bỏ qua (có thể cần transform tag)
		}
	}

	return model, nil
}

// getCreateInputBSONKeySet trả về tập các bson key mà CreateInput khai báo (qua tag json).
// Dùng trong Upsert để phân biệt field có trong DTO (được ghi) với field không có (không ghi đè).
func (h *BaseHandler[T, CreateInput, UpdateInput]) getCreateInputBSONKeySet() map[string]bool {
	var zero CreateInput
	rt := reflect.TypeOf(zero)
	if rt == nil {
		return nil
	}
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	keySet := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("bson")
		if key == "" {
			key = f.Tag.Get("json")
		}
		if key == "" || key == "-" {
			continue
		}
		key = strings.TrimSpace(strings.Split(key, ",")[0])
		if key != "" {
			keySet[key] = true
		}
	}
	if len(keySet) == 0 {
		return nil
	}
	return keySet
}
