package usecases

import (
	"testing"

	"splitmate-server/apperrors"
	"splitmate-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type householdFixture struct {
	uc        *HouseholdUseCase
	houses    *fakeHouseRepo
	users     *fakeUserRepo
	utilities *fakeUtilityRepo
}

func newHouseholdFixture() *householdFixture {
	f := &householdFixture{
		houses:    newFakeHouseRepo(),
		users:     newFakeUserRepo(),
		utilities: newFakeUtilityRepo(),
	}
	f.uc = NewHouseholdUseCase(f.houses, f.users, f.utilities)
	return f
}

func (f *householdFixture) seedPrincipalWithHouse(t *testing.T) (*entities.User, *entities.House) {
	t.Helper()
	principal, err := f.uc.RegisterUser("Ana", "ana@example.com", "secret", entities.RolePrincipal, "Elm Street", "Elm St 12", "")
	require.NoError(t, err)
	require.NotEmpty(t, principal.HouseID)
	house, err := f.houses.GetByID(principal.HouseID)
	require.NoError(t, err)
	return principal, house
}

func TestRegisterUser(t *testing.T) {
	f := newHouseholdFixture()

	t.Run("principal with house name creates and joins the house", func(t *testing.T) {
		principal, house := f.seedPrincipalWithHouse(t)
		assert.Equal(t, entities.RolePrincipal, principal.Role)
		assert.Equal(t, principal.ID, house.PrincipalID)
		assert.Equal(t, "Elm Street", house.Name)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := f.uc.RegisterUser("Ana Clone", "ana@example.com", "secret", entities.RolePrincipal, "", "", "")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("regular tenant must name an existing house", func(t *testing.T) {
		_, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", "aaaabbbbccccddddeeee0000")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		principal, err := f.users.GetByEmail("ana@example.com")
		require.NoError(t, err)
		tenant, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", principal.HouseID)
		require.NoError(t, err)
		assert.Equal(t, principal.HouseID, tenant.HouseID)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := f.uc.RegisterUser("Eve", "eve@example.com", "secret", "admin", "", "", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newHouseholdFixture()
	f.seedPrincipalWithHouse(t)

	user, err := f.uc.Authenticate("ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = f.uc.Authenticate("ana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	_, err = f.uc.Authenticate("nobody@example.com", "secret")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestUpdateUser(t *testing.T) {
	f := newHouseholdFixture()
	principal, _ := f.seedPrincipalWithHouse(t)

	updated, err := f.uc.UpdateUser(principal.ID, principal.ID, "Ana Maria", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)

	_, err = f.uc.UpdateUser("someone-else", principal.ID, "Hacked", "")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestRemoveTenant(t *testing.T) {
	f := newHouseholdFixture()
	principal, house := f.seedPrincipalWithHouse(t)
	tenant, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", house.ID)
	require.NoError(t, err)

	t.Run("regular tenant cannot remove", func(t *testing.T) {
		err := f.uc.RemoveTenant(tenant.ID, tenant.ID)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("principal cannot be removed", func(t *testing.T) {
		err := f.uc.RemoveTenant(principal.ID, principal.ID)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("principal detaches the tenant", func(t *testing.T) {
		require.NoError(t, f.uc.RemoveTenant(principal.ID, tenant.ID))
		detached, err := f.users.GetByID(tenant.ID)
		require.NoError(t, err)
		assert.Empty(t, detached.HouseID)
	})
}

func TestHousesFor(t *testing.T) {
	f := newHouseholdFixture()
	principal, house := f.seedPrincipalWithHouse(t)

	second, err := f.uc.AddHouse(principal.ID, "Lake House", "Shore Rd 3")
	require.NoError(t, err)

	tenant, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", house.ID)
	require.NoError(t, err)

	t.Run("principal sees all owned houses", func(t *testing.T) {
		houses, err := f.uc.HousesFor(principal.ID)
		require.NoError(t, err)
		assert.Len(t, houses, 2)
	})

	t.Run("regular tenant sees only the joined house", func(t *testing.T) {
		houses, err := f.uc.HousesFor(tenant.ID)
		require.NoError(t, err)
		require.Len(t, houses, 1)
		assert.Equal(t, house.ID, houses[0].ID)
	})

	t.Run("regular tenant cannot add houses", func(t *testing.T) {
		_, err := f.uc.AddHouse(tenant.ID, "Cabin", "")
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	_ = second
}

func TestRegisterUtility(t *testing.T) {
	f := newHouseholdFixture()
	principal, house := f.seedPrincipalWithHouse(t)
	tenant, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", house.ID)
	require.NoError(t, err)

	t.Run("principal binds a sensor", func(t *testing.T) {
		utility, err := f.uc.RegisterUtility(principal.ID, house.ID, "Main electric", entities.UtilityTypeElectric, "AA:BB")
		require.NoError(t, err)
		assert.Equal(t, house.ID, utility.HouseID)
		assert.Equal(t, "AA:BB", utility.Sensor)
	})

	t.Run("same sensor twice in one house conflicts", func(t *testing.T) {
		_, err := f.uc.RegisterUtility(principal.ID, house.ID, "Backup electric", entities.UtilityTypeElectric, "AA:BB")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("same sensor in a different house is fine", func(t *testing.T) {
		other, err := f.uc.AddHouse(principal.ID, "Lake House", "")
		require.NoError(t, err)
		_, err = f.uc.RegisterUtility(principal.ID, other.ID, "Lake electric", entities.UtilityTypeElectric, "AA:BB")
		require.NoError(t, err)
	})

	t.Run("regular tenant may not register", func(t *testing.T) {
		_, err := f.uc.RegisterUtility(tenant.ID, house.ID, "Gas", entities.UtilityTypeGas, "EE:FF")
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := f.uc.RegisterUtility(principal.ID, house.ID, "Solar", "solar", "11:22")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestUpdateAndDeleteUtility(t *testing.T) {
	f := newHouseholdFixture()
	principal, house := f.seedPrincipalWithHouse(t)
	tenant, err := f.uc.RegisterUser("Bob", "bob@example.com", "secret", entities.RoleRegular, "", "", house.ID)
	require.NoError(t, err)

	utility, err := f.uc.RegisterUtility(principal.ID, house.ID, "Main electric", entities.UtilityTypeElectric, "AA:BB")
	require.NoError(t, err)
	gas, err := f.uc.RegisterUtility(principal.ID, house.ID, "Gas", entities.UtilityTypeGas, "CC:DD")
	require.NoError(t, err)

	t.Run("rename and retype", func(t *testing.T) {
		updated, err := f.uc.UpdateUtility(principal.ID, utility.ID, "House electric", "", "")
		require.NoError(t, err)
		assert.Equal(t, "House electric", updated.Name)
		assert.Equal(t, entities.UtilityTypeElectric, updated.Type)
	})

	t.Run("sensor change re-checks the per-house rule", func(t *testing.T) {
		_, err := f.uc.UpdateUtility(principal.ID, utility.ID, "", "", "CC:DD")
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		updated, err := f.uc.UpdateUtility(principal.ID, utility.ID, "", "", "EE:FF")
		require.NoError(t, err)
		assert.Equal(t, "EE:FF", updated.Sensor)
	})

	t.Run("regular tenant may not mutate", func(t *testing.T) {
		_, err := f.uc.UpdateUtility(tenant.ID, gas.ID, "Hacked", "", "")
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)

		err = f.uc.DeleteUtility(tenant.ID, gas.ID)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("delete is permanent", func(t *testing.T) {
		require.NoError(t, f.uc.DeleteUtility(principal.ID, gas.ID))
		_, err := f.utilities.GetByID(gas.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		err = f.uc.DeleteUtility(principal.ID, gas.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
