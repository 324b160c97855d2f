package services

func notify(n ChangeNotifier, entity, action string, id int) {
	if n != nil {
		n.Notify(entity, action, id)
	}
}
