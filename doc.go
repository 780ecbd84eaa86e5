// Copyright 2023 The redisdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// redisdict is a dictionary view over a redis hash
// it is made for session and attribute storage of web applications: every field of the hash holds one value, encoded by a tagged json codec so that tuples, bytes, uuids and times come back with their own type instead of a plain json approximation.
// there is no local cache, every operation is one round trip, and the hash key is a random uuid unless you bring your own.
package redisdict

// you can use it as :

// ctx := context.Background()

// client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
// store := redisdict.NewRedisStore(client)
// defer store.Close()

// d, err := redisdict.New(store, redisdict.Options{KeyPrefix: "session:", MaxAge: 30 * time.Minute})
// if err != nil {
//   log.Println(err)
//   return
// }

// d.Set(ctx, "name", "Alice")
// d.Set(ctx, "seen", time.Now())

// v, err := d.Get(ctx, "name")
// if err != nil {
//   log.Println(err)
//   return
// }

// log.Println(d.Key(), v)
