package model

// AutoMigrateの対象。依存される側を先に並べる
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Artist{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&CommissionRequest{},
		&InventoryAdjustment{},
		&AuditLog{},
	}
}
