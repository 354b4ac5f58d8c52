package usecases

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"splitmate-server/apperrors"
	"splitmate-server/entities"
	"splitmate-server/repositories"

	"gorm.io/gorm"
)

// HouseholdUseCase covers houses, tenants and the utility registry.
type HouseholdUseCase struct {
	Houses    repositories.HouseRepository
	Users     repositories.UserRepository
	Utilities repositories.UtilityRepository
}

func NewHouseholdUseCase(
	houses repositories.HouseRepository,
	users repositories.UserRepository,
	utilities repositories.UtilityRepository,
) *HouseholdUseCase {
	return &HouseholdUseCase{Houses: houses, Users: users, Utilities: utilities}
}

// HashPassword creates the SHA-256 hash stored for login checks.
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// ============= Users =============

// RegisterUser creates a tenant. A principal either creates a new house
// (houseName/houseAddress) or none yet; a regular tenant must join an
// existing house by id.
func (uc *HouseholdUseCase) RegisterUser(name, email, password, role, houseName, houseAddress, houseID string) (*entities.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.Validation("name, email and password are required")
	}
	if role != entities.RolePrincipal && role != entities.RoleRegular {
		return nil, apperrors.Validation("role must be %q or %q", entities.RolePrincipal, entities.RoleRegular)
	}
	if _, err := uc.Users.GetByEmail(email); err == nil {
		return nil, apperrors.Conflict("email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: HashPassword(password),
		Role:         role,
	}

	if role == entities.RoleRegular {
		if houseID == "" {
			return nil, apperrors.Validation("a regular tenant must join an existing house")
		}
		if _, err := uc.Houses.GetByID(houseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("house %s", houseID)
			}
			return nil, err
		}
		user.HouseID = houseID
	}

	if err := uc.Users.Create(user); err != nil {
		return nil, err
	}

	if role == entities.RolePrincipal && houseName != "" {
		house := &entities.House{Name: houseName, Address: houseAddress, PrincipalID: user.ID}
		if err := uc.Houses.Create(house); err != nil {
			return nil, err
		}
		user.HouseID = house.ID
		if err := uc.Users.Update(user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Authenticate checks email/password and returns the user on success.
func (uc *HouseholdUseCase) Authenticate(email, password string) (*entities.User, error) {
	user, err := uc.Users.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Authorization("invalid email or password")
	}
	if user.PasswordHash != HashPassword(password) {
		return nil, apperrors.Authorization("invalid email or password")
	}
	return user, nil
}

func (uc *HouseholdUseCase) GetUser(id string) (*entities.User, error) {
	if id == "" {
		return nil, apperrors.Validation("user id is required")
	}
	user, err := uc.Users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %s", id)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser updates name/email on the caller's own profile.
func (uc *HouseholdUseCase) UpdateUser(callerID, id, name, email string) (*entities.User, error) {
	if callerID != id {
		return nil, apperrors.Authorization("cannot update another user's profile")
	}
	user, err := uc.GetUser(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if err := uc.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Tenants lists the occupants of a house.
func (uc *HouseholdUseCase) Tenants(houseID string) ([]entities.User, error) {
	if houseID == "" {
		return nil, apperrors.Validation("houseId is required")
	}
	return uc.Users.GetByHouseID(houseID)
}

// RemoveTenant detaches a regular tenant from the caller's house.
func (uc *HouseholdUseCase) RemoveTenant(callerID, tenantID string) error {
	caller, err := uc.GetUser(callerID)
	if err != nil {
		return err
	}
	if caller.Role != entities.RolePrincipal {
		return apperrors.Authorization("only the principal tenant can remove tenants")
	}
	tenant, err := uc.GetUser(tenantID)
	if err != nil {
		return err
	}
	if tenant.Role == entities.RolePrincipal {
		return apperrors.Validation("the principal tenant cannot be removed")
	}
	if err := uc.requirePrincipalOfHouse(caller, tenant.HouseID); err != nil {
		return err
	}
	tenant.HouseID = ""
	return uc.Users.Update(tenant)
}

// ============= Houses =============

// ListHouses is the anonymous house list shown before login.
func (uc *HouseholdUseCase) ListHouses() ([]entities.House, error) {
	return uc.Houses.GetAll()
}

// HousesFor returns the houses visible to a user: all owned houses for a
// principal, the single joined house for a regular tenant.
func (uc *HouseholdUseCase) HousesFor(userID string) ([]entities.House, error) {
	user, err := uc.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Role == entities.RolePrincipal {
		return uc.Houses.GetByPrincipalID(user.ID)
	}
	if user.HouseID == "" {
		return []entities.House{}, nil
	}
	house, err := uc.Houses.GetByID(user.HouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []entities.House{}, nil
		}
		return nil, err
	}
	return []entities.House{*house}, nil
}

// AddHouse registers another house for a principal.
func (uc *HouseholdUseCase) AddHouse(callerID, name, address string) (*entities.House, error) {
	caller, err := uc.GetUser(callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != entities.RolePrincipal {
		return nil, apperrors.Authorization("only the principal tenant can register houses")
	}
	if name == "" {
		return nil, apperrors.Validation("house name is required")
	}
	house := &entities.House{Name: name, Address: address, PrincipalID: caller.ID}
	if err := uc.Houses.Create(house); err != nil {
		return nil, err
	}
	return house, nil
}

// ============= Utility registry =============

// RegisterUtility binds a named consumption source to a sensor within a
// house. The same sensor may serve different houses, but binding it twice
// within one house is a conflict.
func (uc *HouseholdUseCase) RegisterUtility(callerID, houseID, name, utilityType, sensor string) (*entities.Utility, error) {
	if name == "" || sensor == "" {
		return nil, apperrors.Validation("utility name and sensor are required")
	}
	if !entities.ValidUtilityType(utilityType) {
		return nil, apperrors.Validation("utility type must be electric, gas or water")
	}
	caller, err := uc.GetUser(callerID)
	if err != nil {
		return nil, err
	}
	if err := uc.requirePrincipalOfHouse(caller, houseID); err != nil {
		return nil, err
	}
	if _, err := uc.Utilities.GetByHouseAndSensor(houseID, sensor); err == nil {
		return nil, apperrors.Conflict("sensor %s is already bound in this house", sensor)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	utility := &entities.Utility{HouseID: houseID, Name: name, Type: utilityType, Sensor: sensor}
	if err := uc.Utilities.Create(utility); err != nil {
		return nil, err
	}
	return utility, nil
}

func (uc *HouseholdUseCase) UtilitiesByHouse(houseID string) ([]entities.Utility, error) {
	if houseID == "" {
		return nil, apperrors.Validation("houseId is required")
	}
	return uc.Utilities.GetByHouseID(houseID)
}

// UpdateUtility updates name/type/sensor; only the house's principal may
// call it. A sensor change re-checks the per-house uniqueness rule.
func (uc *HouseholdUseCase) UpdateUtility(callerID, id, name, utilityType, sensor string) (*entities.Utility, error) {
	existing, err := uc.getUtility(id)
	if err != nil {
		return nil, err
	}
	caller, err := uc.GetUser(callerID)
	if err != nil {
		return nil, err
	}
	if err := uc.requirePrincipalOfHouse(caller, existing.HouseID); err != nil {
		return nil, err
	}

	if name != "" {
		existing.Name = name
	}
	if utilityType != "" {
		if !entities.ValidUtilityType(utilityType) {
			return nil, apperrors.Validation("utility type must be electric, gas or water")
		}
		existing.Type = utilityType
	}
	if sensor != "" && sensor != existing.Sensor {
		if _, err := uc.Utilities.GetByHouseAndSensor(existing.HouseID, sensor); err == nil {
			return nil, apperrors.Conflict("sensor %s is already bound in this house", sensor)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		existing.Sensor = sensor
	}

	if err := uc.Utilities.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteUtility removes a utility permanently. Bills already derived are
// unaffected; fresh aggregations simply no longer see it.
func (uc *HouseholdUseCase) DeleteUtility(callerID, id string) error {
	existing, err := uc.getUtility(id)
	if err != nil {
		return err
	}
	caller, err := uc.GetUser(callerID)
	if err != nil {
		return err
	}
	if err := uc.requirePrincipalOfHouse(caller, existing.HouseID); err != nil {
		return err
	}
	return uc.Utilities.Delete(id)
}

func (uc *HouseholdUseCase) getUtility(id string) (*entities.Utility, error) {
	if id == "" {
		return nil, apperrors.Validation("utility id is required")
	}
	utility, err := uc.Utilities.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("utility %s", id)
		}
		return nil, err
	}
	return utility, nil
}

func (uc *HouseholdUseCase) requirePrincipalOfHouse(caller *entities.User, houseID string) error {
	if caller.Role != entities.RolePrincipal {
		return apperrors.Authorization("only the principal tenant may do this")
	}
	house, err := uc.Houses.GetByID(houseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("house %s", houseID)
		}
		return err
	}
	if house.PrincipalID != caller.ID {
		return apperrors.Authorization("house %s belongs to another principal", houseID)
	}
	return nil
}
