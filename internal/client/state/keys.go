package state

// Local storage keys.
const (
	KeyTransactions     = "transactions"
	KeyCustomCategories = "customCategories"
	KeyReminders        = "reminders"
	KeyPaidHistory      = "paidRemindersHistory"
	KeyMonthlyBudget    = "monthlyBudget"
	KeyCartItems        = "cartItems"
	KeyUserProfile      = "userProfile"
	KeyToken            = "token"
	KeyUserData         = "userData"
	KeyCurrentUser      = "currentUser"
	KeyProfileData      = "profileData"
)

// Session storage keys.
const (
	KeyNewUserRegistration = "newUserRegistration"
	KeyRegisteredName      = "registeredName"
)

// sliceKeys are cleared whenever a different account signs in.
var sliceKeys = []string{
	KeyTransactions,
	KeyCustomCategories,
	KeyReminders,
	KeyMonthlyBudget,
	KeyCartItems,
	KeyPaidHistory,
}

// logoutKeys is everything a logout removes from local storage.
var logoutKeys = []string{
	KeyToken,
	KeyUserData,
	KeyCurrentUser,
	KeyUserProfile,
	KeyTransactions,
	KeyCustomCategories,
	KeyReminders,
	KeyMonthlyBudget,
	KeyCartItems,
	KeyPaidHistory,
	KeyProfileData,
}
