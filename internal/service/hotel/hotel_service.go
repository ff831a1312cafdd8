// Package hotel 提供酒店与房型服务
package hotel

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/cache"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/common/metrics"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

// 酒店详情缓存有效期
const hotelCacheTTL = 5 * time.Minute

// HotelService 酒店服务
type HotelService struct {
	db        *gorm.DB
	hotelRepo *repository.HotelRepository
	roomRepo  *repository.RoomRepository
	cache     *cache.Cache
}

// NewHotelService 创建酒店服务，hotelCache 传 nil 时关闭详情缓存
func NewHotelService(
	db *gorm.DB,
	hotelRepo *repository.HotelRepository,
	roomRepo *repository.RoomRepository,
	hotelCache *cache.Cache,
) *HotelService {
	return &HotelService{
		db:        db,
		hotelRepo: hotelRepo,
		roomRepo:  roomRepo,
		cache:     hotelCache,
	}
}

func hotelCacheKey(hotelID int64) string {
	return cache.BuildKey(cache.KeyPrefixHotel, strconv.FormatInt(hotelID, 10), "detail")
}

// invalidateHotelCache 酒店或房型变更后删除详情缓存
func (s *HotelService) invalidateHotelCache(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, hotelCacheKey(hotelID)); err != nil {
		logger.Warn("删除酒店缓存失败", logger.HotelID(hotelID), zap.Error(err))
	}
}

// HotelListRequest 酒店列表请求
type HotelListRequest struct {
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
	City     string `form:"city" json:"city"`
	Keyword  string `form:"keyword" json:"keyword"`
}

// CreateHotelRequest 创建酒店请求
type CreateHotelRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	City        string  `json:"city" binding:"required,max=50"`
	Address     string  `json:"address" binding:"required,max=255"`
	Description *string `json:"description"`
}

// UpdateHotelRequest 更新酒店请求
type UpdateHotelRequest struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// CreateRoomRequest 创建房型请求
type CreateRoomRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Type        string  `json:"type" binding:"required,oneof=standard deluxe suite"`
	Price       int64   `json:"price" binding:"required,min=0"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
	Inventory   int     `json:"inventory" binding:"min=0"`
	Description *string `json:"description"`
}

// UpdateRoomRequest 更新房型请求
type UpdateRoomRequest struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Capacity    *int    `json:"capacity"`
	Inventory   *int    `json:"inventory"`
	Description *string `json:"description"`
}

// HotelInfo 酒店信息
type HotelInfo struct {
	ID          int64       `json:"id"`
	OwnerID     int64       `json:"owner_id"`
	Name        string      `json:"name"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	Description string      `json:"description,omitempty"`
	Status      int8        `json:"status"`
	RoomCount   int         `json:"room_count"`
	MinPrice    int64       `json:"min_price"`
	Rooms       []*RoomInfo `json:"rooms,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RoomInfo 房型信息
type RoomInfo struct {
	ID          int64     `json:"id"`
	HotelID     int64     `json:"hotel_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	TypeName    string    `json:"type_name"`
	Price       int64     `json:"price"`
	Capacity    int       `json:"capacity"`
	Inventory   int       `json:"inventory"`
	Description string    `json:"description,omitempty"`
	Status      int8      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListHotels 获取酒店列表，仅展示上架酒店
func (s *HotelService) ListHotels(ctx context.Context, req *HotelListRequest) ([]*HotelInfo, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 50 {
		req.PageSize = 50
	}
	offset := (req.Page - 1) * req.PageSize

	filters := map[string]interface{}{
		"status": int8(models.HotelStatusActive),
	}
	if req.City != "" {
		filters["city"] = req.City
	}
	if req.Keyword != "" {
		filters["name"] = req.Keyword
	}

	hotels, total, err := s.hotelRepo.List(ctx, offset, req.PageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toHotelInfos(hotels), total, nil
}

// GetHotel 获取酒店详情，携带在售房型，优先走缓存
func (s *HotelService) GetHotel(ctx context.Context, hotelID int64) (*HotelInfo, error) {
	if s.cache != nil {
		var cached HotelInfo
		if err := s.cache.GetJSON(ctx, hotelCacheKey(hotelID), &cached); err == nil {
			metrics.GetMetrics().RecordCacheHit("hotel_detail")
			return &cached, nil
		}
		metrics.GetMetrics().RecordCacheMiss("hotel_detail")
	}

	hotel, err := s.hotelRepo.GetByIDWithRooms(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if hotel.Status != models.HotelStatusActive {
		return nil, errors.ErrHotelNotFound
	}

	info := s.toHotelInfo(hotel)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, hotelCacheKey(hotelID), info, hotelCacheTTL); err != nil {
			logger.Warn("写入酒店缓存失败", logger.HotelID(hotelID), zap.Error(err))
		}
	}
	return info, nil
}

// ListRooms 获取酒店在售房型列表
func (s *HotelService) ListRooms(ctx context.Context, hotelID int64) ([]*RoomInfo, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if hotel.Status != models.HotelStatusActive {
		return nil, errors.ErrHotelNotFound
	}

	active := int8(models.RoomStatusActive)
	rooms, err := s.roomRepo.ListByHotel(ctx, hotelID, &active)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.toRoomInfos(rooms), nil
}

// CreateHotel 创建酒店，归属于当前合作方
func (s *HotelService) CreateHotel(ctx context.Context, ownerID int64, req *CreateHotelRequest) (*HotelInfo, error) {
	hotel := &models.Hotel{
		OwnerID:     ownerID,
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		Status:      models.HotelStatusActive,
	}

	if err := s.hotelRepo.Create(ctx, hotel); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("酒店已创建",
		logger.UserID(ownerID),
		logger.HotelID(hotel.ID))

	return s.toHotelInfo(hotel), nil
}

// UpdateHotel 更新酒店，仅所有者或管理员可操作
func (s *HotelService) UpdateHotel(ctx context.Context, hotelID, requesterID int64, role string, req *UpdateHotelRequest) (*HotelInfo, error) {
	hotel, err := s.getOwnedHotel(ctx, hotelID, requesterID, role)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.hotelRepo.UpdateFields(ctx, hotelID, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		s.invalidateHotelCache(ctx, hotelID)
	}

	hotel, err = s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.toHotelInfo(hotel), nil
}

// SetHotelStatus 上下架酒店，仅所有者或管理员可操作
func (s *HotelService) SetHotelStatus(ctx context.Context, hotelID, requesterID int64, role string, status int8) error {
	if status != models.HotelStatusDisabled && status != models.HotelStatusActive {
		return errors.ErrInvalidParams.WithMessage("无效的酒店状态")
	}

	if _, err := s.getOwnedHotel(ctx, hotelID, requesterID, role); err != nil {
		return err
	}

	if err := s.hotelRepo.UpdateStatus(ctx, hotelID, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	s.invalidateHotelCache(ctx, hotelID)

	logger.Info("酒店状态已更新",
		logger.HotelID(hotelID),
		logger.UserID(requesterID))

	return nil
}

// ListOwnHotels 获取合作方名下酒店，含已下架
func (s *HotelService) ListOwnHotels(ctx context.Context, ownerID int64) ([]*HotelInfo, error) {
	hotels, err := s.hotelRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toHotelInfos(hotels), nil
}

// CreateRoom 为酒店新增房型，仅所有者或管理员可操作
func (s *HotelService) CreateRoom(ctx context.Context, hotelID, requesterID int64, role string, req *CreateRoomRequest) (*RoomInfo, error) {
	if _, err := s.getOwnedHotel(ctx, hotelID, requesterID, role); err != nil {
		return nil, err
	}

	room := &models.Room{
		HotelID:     hotelID,
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Inventory:   req.Inventory,
		Description: req.Description,
		Status:      models.RoomStatusActive,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.invalidateHotelCache(ctx, hotelID)

	logger.Info("房型已创建",
		logger.HotelID(hotelID),
		logger.RoomID(room.ID))

	return s.toRoomInfo(room), nil
}

// UpdateRoom 更新房型，仅所有者或管理员可操作
func (s *HotelService) UpdateRoom(ctx context.Context, roomID, requesterID int64, role string, req *UpdateRoomRequest) (*RoomInfo, error) {
	room, err := s.getOwnedRoom(ctx, roomID, requesterID, role)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.ErrInvalidParams.WithMessage("房价不能为负数")
		}
		fields["price"] = *req.Price
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, errors.ErrInvalidParams.WithMessage("容量至少为 1")
		}
		fields["capacity"] = *req.Capacity
	}
	if req.Inventory != nil {
		if *req.Inventory < 0 {
			return nil, errors.ErrInvalidParams.WithMessage("库存不能为负数")
		}
		fields["inventory"] = *req.Inventory
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.roomRepo.UpdateFields(ctx, roomID, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		s.invalidateHotelCache(ctx, room.HotelID)
	}

	room, err = s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.toRoomInfo(room), nil
}

// SetRoomStatus 上下架房型，仅所有者或管理员可操作
func (s *HotelService) SetRoomStatus(ctx context.Context, roomID, requesterID int64, role string, status int8) error {
	if status != models.RoomStatusDisabled && status != models.RoomStatusActive {
		return errors.ErrInvalidParams.WithMessage("无效的房型状态")
	}

	room, err := s.getOwnedRoom(ctx, roomID, requesterID, role)
	if err != nil {
		return err
	}

	if err := s.roomRepo.UpdateFields(ctx, roomID, map[string]interface{}{"status": status}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	s.invalidateHotelCache(ctx, room.HotelID)

	return nil
}

// getOwnedHotel 获取酒店并校验操作权限
func (s *HotelService) getOwnedHotel(ctx context.Context, hotelID, requesterID int64, role string) (*models.Hotel, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if role != models.RoleAdmin && hotel.OwnerID != requesterID {
		return nil, errors.ErrPermissionDenied
	}

	return hotel, nil
}

// getOwnedRoom 获取房型并校验对所属酒店的操作权限
func (s *HotelService) getOwnedRoom(ctx context.Context, roomID, requesterID int64, role string) (*models.Room, error) {
	room, err := s.roomRepo.GetByIDWithHotel(ctx, roomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if role != models.RoleAdmin && (room.Hotel == nil || room.Hotel.OwnerID != requesterID) {
		return nil, errors.ErrPermissionDenied
	}

	return room, nil
}

// toHotelInfo 转换酒店信息
func (s *HotelService) toHotelInfo(hotel *models.Hotel) *HotelInfo {
	info := &HotelInfo{
		ID:        hotel.ID,
		OwnerID:   hotel.OwnerID,
		Name:      hotel.Name,
		City:      hotel.City,
		Address:   hotel.Address,
		Status:    hotel.Status,
		CreatedAt: hotel.CreatedAt,
	}

	if hotel.Description != nil {
		info.Description = *hotel.Description
	}

	if len(hotel.Rooms) > 0 {
		info.RoomCount = len(hotel.Rooms)
		minPrice := hotel.Rooms[0].Price
		for _, room := range hotel.Rooms {
			if room.Price < minPrice {
				minPrice = room.Price
			}
			info.Rooms = append(info.Rooms, s.toRoomInfo(&room))
		}
		info.MinPrice = minPrice
	}

	return info
}

// toHotelInfos 转换酒店列表
func (s *HotelService) toHotelInfos(hotels []*models.Hotel) []*HotelInfo {
	result := make([]*HotelInfo, len(hotels))
	for i, hotel := range hotels {
		result[i] = s.toHotelInfo(hotel)
	}
	return result
}

// toRoomInfo 转换房型信息
func (s *HotelService) toRoomInfo(room *models.Room) *RoomInfo {
	info := &RoomInfo{
		ID:        room.ID,
		HotelID:   room.HotelID,
		Name:      room.Name,
		Type:      room.Type,
		TypeName:  s.getRoomTypeName(room.Type),
		Price:     room.Price,
		Capacity:  room.Capacity,
		Inventory: room.Inventory,
		Status:    room.Status,
		CreatedAt: room.CreatedAt,
	}
	if room.Description != nil {
		info.Description = *room.Description
	}
	return info
}

// toRoomInfos 转换房型列表
func (s *HotelService) toRoomInfos(rooms []*models.Room) []*RoomInfo {
	result := make([]*RoomInfo, len(rooms))
	for i, room := range rooms {
		result[i] = s.toRoomInfo(room)
	}
	return result
}

// getRoomTypeName 获取房型类别名称
func (s *HotelService) getRoomTypeName(roomType string) string {
	switch roomType {
	case models.RoomTypeStandard:
		return "标准间"
	case models.RoomTypeDeluxe:
		return "豪华间"
	case models.RoomTypeSuite:
		return "套房"
	default:
		return "其他"
	}
}
