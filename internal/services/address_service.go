package services

import (
	"ghostsapi/internal/models"
	"ghostsapi/internal/repositories"
)

type AddressService interface {
	CreateAddress(a *models.Address) error
	GetAddressByID(id int) (*models.Address, error)
	ListAddressesByUser(userID int) ([]*models.Address, error)
	UpdateAddress(a *models.Address) error
	DeleteAddress(id int) error
}

type addressService struct {
	repo  repositories.AddressRepository
	users repositories.UserRepository
}

func NewAddressService(repo repositories.AddressRepository, users repositories.UserRepository) AddressService {
	return &addressService{repo: repo, users: users}
}

func (s *addressService) CreateAddress(a *models.Address) error {
	user, err := s.users.GetByID(a.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.repo.Create(a)
}

func (s *addressService) GetAddressByID(id int) (*models.Address, error) {
	return s.repo.GetByID(id)
}

func (s *addressService) ListAddressesByUser(userID int) ([]*models.Address, error) {
	return s.repo.ListByUserID(userID)
}

func (s *addressService) UpdateAddress(a *models.Address) error {
	return s.repo.Update(a)
}

func (s *addressService) DeleteAddress(id int) error {
	return s.repo.Delete(id)
}
