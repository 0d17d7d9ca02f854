package service

import (
	"strings"

	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

// ContactService 用户联系方式
type ContactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService 创建联系方式服务
func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// ContactInput 联系方式字段，nil 表示不修改
type ContactInput struct {
	City      *string
	Street    *string
	House     *string
	Structure *string
	Building  *string
	Apartment *string
	Phone     *string
}

func (in ContactInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	add := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	add("city", in.City)
	add("street", in.Street)
	add("house", in.House)
	add("structure", in.Structure)
	add("building", in.Building)
	add("apartment", in.Apartment)
	add("phone", in.Phone)
	return fields
}

// List 列出用户联系方式
func (s *ContactService) List(userID uint) ([]models.Contact, error) {
	return s.contactRepo.ListByUser(userID)
}

// Create 新建联系方式，city、street、phone 必填
func (s *ContactService) Create(userID uint, input ContactInput) (*models.Contact, error) {
	value := func(v *string) string {
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	}
	contact := &models.Contact{
		UserID:    userID,
		City:      value(input.City),
		Street:    value(input.Street),
		House:     value(input.House),
		Structure: value(input.Structure),
		Building:  value(input.Building),
		Apartment: value(input.Apartment),
		Phone:     value(input.Phone),
	}
	if contact.City == "" || contact.Street == "" || contact.Phone == "" {
		return nil, ErrInvalidInput
	}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, translateDBError(err)
	}
	return contact, nil
}

// Update 局部更新本人的联系方式，rawID 须为数字
func (s *ContactService) Update(userID uint, rawID string, input ContactInput) (*models.Contact, error) {
	id, ok := ParseDigitID(rawID)
	if !ok {
		return nil, ErrContactNotFound
	}
	contact, err := s.contactRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	fields := input.fields()
	for _, required := range []string{"city", "street", "phone"} {
		if v, ok := fields[required]; ok && v == "" {
			return nil, ErrInvalidInput
		}
	}
	if err := s.contactRepo.UpdateFields(contact, fields); err != nil {
		return nil, translateDBError(err)
	}
	return s.contactRepo.GetByIDAndUser(contact.ID, userID)
}

// Delete 删除本人的联系方式，items 为逗号分隔的 ID
func (s *ContactService) Delete(userID uint, items string) (int64, error) {
	ids := ParseIDList(items)
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	deleted, err := s.contactRepo.DeleteByIDsAndUser(ids, userID)
	if err != nil {
		return 0, translateDBError(err)
	}
	return deleted, nil
}
