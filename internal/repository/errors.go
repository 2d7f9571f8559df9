package repository

import "errors"

// ErrNotFound возвращается и когда строки нет, и когда строка принадлежит
// другому пользователю — снаружи эти случаи неразличимы.
var ErrNotFound = errors.New("запись не найдена")
