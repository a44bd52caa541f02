package store

import "fmt"

// Key layout. Index keys carry no value; the entity ID is the key suffix.
const (
	bookPrefix         = "book:"             // book:{id} → RecipeBook
	booksByOwnerPrefix = "idx:books:owner:"  // idx:books:owner:{ownerID}:{bookID}

	recipePrefix         = "recipe:"            // recipe:{id} → Recipe
	recipesByOwnerPrefix = "idx:recipes:owner:" // idx:recipes:owner:{ownerID}:{recipeID}
	recipesByBookPrefix  = "idx:recipes:book:"  // idx:recipes:book:{bookID}:{recipeID}

	versionPrefix      = "version:"         // version:{recipeID}:{%08d} → Version
	versionsByIDPrefix = "idx:versions:id:" // idx:versions:id:{versionID} → version key

	userPrefix = "user:" // user:{id} → UserProfile
)

func bookKey(id string) []byte {
	return []byte(bookPrefix + id)
}

func bookOwnerKey(ownerID, bookID string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", booksByOwnerPrefix, ownerID, bookID)
}

func bookOwnerScan(ownerID string) []byte {
	return fmt.Appendf(nil, "%s%s:", booksByOwnerPrefix, ownerID)
}

func recipeKey(id string) []byte {
	return []byte(recipePrefix + id)
}

func recipeOwnerKey(ownerID, recipeID string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", recipesByOwnerPrefix, ownerID, recipeID)
}

func recipeOwnerScan(ownerID string) []byte {
	return fmt.Appendf(nil, "%s%s:", recipesByOwnerPrefix, ownerID)
}

func recipeBookKey(bookID, recipeID string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", recipesByBookPrefix, bookID, recipeID)
}

func recipeBookScan(bookID string) []byte {
	return fmt.Appendf(nil, "%s%s:", recipesByBookPrefix, bookID)
}

// versionKey zero-pads the number so versions iterate in numeric order.
func versionKey(recipeID string, number int) []byte {
	return fmt.Appendf(nil, "%s%s:%08d", versionPrefix, recipeID, number)
}

func versionScan(recipeID string) []byte {
	return fmt.Appendf(nil, "%s%s:", versionPrefix, recipeID)
}

func versionIDKey(versionID string) []byte {
	return []byte(versionsByIDPrefix + versionID)
}
