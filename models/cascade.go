package models

import "gorm.io/gorm"

// Cascade rules are enforced here, in one transaction per deletion, rather
// than by database foreign keys: children go first, then the parent. The
// sqlite and mysql schemas stay identical this way.

// DeletePost removes a post and all of its comments.
func DeletePost(db *gorm.DB, postID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Post{}, postID).Error
	})
}

// DeleteUser removes a user together with their posts, the comments on
// those posts, and every comment they left elsewhere.
func DeleteUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&Post{}).Where("author_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, userID).Error
	})
}

// DeleteCategory removes a category; posts filed under it survive with a
// NULL category.
func DeleteCategory(db *gorm.DB, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Post{}).Where("category_id = ?", categoryID).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&Category{}, categoryID).Error
	})
}

// DeleteLocation removes a location; posts keep existing with a NULL
// location.
func DeleteLocation(db *gorm.DB, locationID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Post{}).Where("location_id = ?", locationID).Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&Location{}, locationID).Error
	})
}
